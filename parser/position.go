package parser

import (
	"fmt"
	"unicode/utf8"
)

// Position tracks a source location within a Pulse source file.
type Position struct {
	Offset   int    // zero-based byte offset
	Line     int    // one-based line number
	Column   int    // one-based column number (rune count)
	Filename string // name used in diagnostics
	Text     string // full source text the position points into
}

// StartOf returns the position of the first rune of text.
func StartOf(filename, text string) Position {
	return Position{
		Line:     1,
		Column:   1,
		Filename: filename,
		Text:     text,
	}
}

// Advance returns the position just past the rune r.
func (p Position) Advance(r rune) Position {
	w := utf8.RuneLen(r)
	if w < 0 {
		w = 1
	}
	p.Offset += w
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
