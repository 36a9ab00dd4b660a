package lang

import (
	"errors"
	"fmt"

	"github.com/sergev/pulse/parser"
)

// Frame is what a built-in sees when it is called: its bound arguments and
// the location of the call.
type Frame struct {
	Env     *Env // holds the parameters
	Context *Context
	Start   parser.Position
	End     parser.Position
}

// Arg returns the argument bound to the named parameter.
func (f *Frame) Arg(name string) Value {
	v, _ := f.Env.Get(name)
	return v
}

// Errorf builds a runtime error located at the call.
func (f *Frame) Errorf(format string, args ...interface{}) *RuntimeError {
	return NewRuntimeError(f.Start, f.End, f.Context, format, args...)
}

// wrap turns an error returned by a built-in into a RuntimeError.
func (f *Frame) wrap(err error) *RuntimeError {
	var rterr *RuntimeError
	if errors.As(err, &rterr) {
		return rterr
	}
	return &RuntimeError{
		Start:   f.Start,
		End:     f.End,
		Details: fmt.Sprint(err),
		Context: f.Context,
		Cause:   err,
	}
}
