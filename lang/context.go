package lang

import "github.com/sergev/pulse/parser"

// ProgramName names the outermost execution context.
const ProgramName = "<program>"

// Context is one frame of the call chain as shown in tracebacks. It plays
// no part in name resolution.
type Context struct {
	Name     string
	Parent   *Context
	EntryPos parser.Position // call site in the parent context
}

// NewContext creates a context entered from parent at entry.
func NewContext(name string, parent *Context, entry parser.Position) *Context {
	return &Context{Name: name, Parent: parent, EntryPos: entry}
}
