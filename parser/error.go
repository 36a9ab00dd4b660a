package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lexer and parser failures.
type ErrorKind int

const (
	IllegalCharacter ErrorKind = iota
	ExpectedCharacter
	InvalidSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalCharacter:
		return "Illegal Character"
	case ExpectedCharacter:
		return "Expected Character"
	case InvalidSyntax:
		return "Invalid Syntax"
	default:
		return "Error"
	}
}

// Error represents a lexer or parser error with its source span.
type Error struct {
	Kind       ErrorKind
	Start      Position
	End        Position
	Details    string
	Incomplete bool // raised at end of input; more text may complete it
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

// Report renders the error with its location and a highlighted snippet.
func (e *Error) Report() string {
	return fmt.Sprintf("%s\nFile %s, line %d\n\n%s",
		e.Error(), e.Start.Filename, e.Start.Line, Highlight(e.Start.Text, e.Start, e.End))
}

func newError(kind ErrorKind, start, end Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Start:   start,
		End:     end,
		Details: fmt.Sprintf(format, args...),
	}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
