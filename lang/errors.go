package lang

import (
	"fmt"
	"strings"

	"github.com/sergev/pulse/parser"
)

// RuntimeError is raised while evaluating a program. It records the span of
// the offending expression and the context it was raised in.
type RuntimeError struct {
	Start   parser.Position
	End     parser.Position
	Details string
	Context *Context
	Cause   error
}

// NewRuntimeError creates a RuntimeError located at [start, end).
func NewRuntimeError(start, end parser.Position, ctx *Context, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Start:   start,
		End:     end,
		Details: fmt.Sprintf(format, args...),
		Context: ctx,
	}
}

func (e *RuntimeError) Error() string {
	return "Runtime Error: " + e.Details
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Traceback lists the active contexts, outermost first.
func (e *RuntimeError) Traceback() string {
	var frames []string
	pos := e.Start
	for ctx := e.Context; ctx != nil; ctx = ctx.Parent {
		frames = append(frames, fmt.Sprintf("  File %s, line %d, in %s\n", pos.Filename, pos.Line, ctx.Name))
		pos = ctx.EntryPos
	}
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(frames) - 1; i >= 0; i-- {
		b.WriteString(frames[i])
	}
	return b.String()
}

// Report renders the traceback, the message and the highlighted source.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s%s\n\n%s", e.Traceback(), e.Error(), parser.Highlight(e.Start.Text, e.Start, e.End))
}
