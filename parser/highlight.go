package parser

import "strings"

// Highlight returns the source lines covered by [start, end) with a row of
// '^' markers under the span on each line. A zero-width span gets one marker.
func Highlight(text string, start, end Position) string {
	if end.Offset < start.Offset {
		end = start
	}
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return ""
	}
	first := clampLine(start.Line, len(lines))
	last := clampLine(end.Line, len(lines))
	if last < first {
		last = first
	}

	var b strings.Builder
	for ln := first; ln <= last; ln++ {
		line := strings.TrimRight(lines[ln-1], "\r")
		width := len([]rune(line))

		colStart := 1
		if ln == first {
			colStart = start.Column
		}
		colEnd := width + 1
		if ln == last {
			colEnd = end.Column
		}
		if colEnd <= colStart {
			colEnd = colStart + 1
		}

		line = strings.ReplaceAll(line, "\t", " ")
		b.WriteString(line)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", colStart-1))
		b.WriteString(strings.Repeat("^", colEnd-colStart))
		if ln < last {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clampLine(line, count int) int {
	if line < 1 {
		return 1
	}
	if line > count {
		return count
	}
	return line
}
