package lang

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sergev/pulse/parser"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNone ValueType = iota // absent value; the zero Value
	TypeNumber
	TypeString
	TypeList
	TypeFunction
	TypeBuiltin
)

func (t ValueType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeFunction:
		return "function"
	case TypeBuiltin:
		return "built-in function"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter. Start, End and
// Context locate the expression that produced it and are used only for
// diagnostics.
type Value struct {
	Type    ValueType
	payload interface{}

	Start   parser.Position
	End     parser.Position
	Context *Context
}

// List is the element store of a list value. Copies of a list Value share
// the same store.
type List struct {
	Elements []Value
}

// Function is a user-defined function.
type Function struct {
	Name       string
	Params     []string
	Body       parser.Node
	AutoReturn bool
	Env        *Env // defining environment
}

// Native implements a built-in function. Plain errors are reported as
// runtime errors located at the call.
type Native func(*Frame) (Value, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	Name   string
	Params []string
	Native Native
}

// None is the absent value.
var None = Value{}

// IntValue constructs an integer Number.
func IntValue(i int64) Value {
	return Value{Type: TypeNumber, payload: i}
}

// FloatValue constructs a floating-point Number.
func FloatValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// BoolValue returns 1 for true and 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// StringValue constructs a String.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// ListValue constructs a List with a new element store.
func ListValue(elems ...Value) Value {
	return Value{Type: TypeList, payload: &List{Elements: elems}}
}

// FunctionValue wraps a user-defined function.
func FunctionValue(fn *Function) Value {
	return Value{Type: TypeFunction, payload: fn}
}

// BuiltinValue wraps a built-in function.
func BuiltinValue(name string, params []string, native Native) Value {
	return Value{
		Type:    TypeBuiltin,
		payload: &Builtin{Name: name, Params: params, Native: native},
	}
}

// WithPos returns a copy of v located at [start, end).
func (v Value) WithPos(start, end parser.Position) Value {
	v.Start = start
	v.End = end
	return v
}

// WithContext returns a copy of v attached to ctx.
func (v Value) WithContext(ctx *Context) Value {
	v.Context = ctx
	return v
}

// IsNone reports whether v is the absent value.
func (v Value) IsNone() bool {
	return v.Type == TypeNone
}

// IsInt reports whether v is a Number holding an integer.
func (v Value) IsInt() bool {
	_, ok := v.payload.(int64)
	return ok
}

// Int returns the integer payload, truncating floats.
func (v Value) Int() int64 {
	switch n := v.payload.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// Float returns the numeric payload as a float64.
func (v Value) Float() float64 {
	switch n := v.payload.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) List() *List {
	if l, ok := v.payload.(*List); ok {
		return l
	}
	return nil
}

func (v Value) Function() *Function {
	if f, ok := v.payload.(*Function); ok {
		return f
	}
	return nil
}

func (v Value) Builtin() *Builtin {
	if b, ok := v.payload.(*Builtin); ok {
		return b
	}
	return nil
}

// IsTrue reports the truthiness of v. Lists and functions are always true.
func (v Value) IsTrue() bool {
	switch v.Type {
	case TypeNumber:
		return v.Float() != 0
	case TypeString:
		return v.Str() != ""
	case TypeList, TypeFunction, TypeBuiltin:
		return true
	}
	return false
}

// String returns the printed form: strings are written raw.
func (v Value) String() string {
	if v.Type == TypeString {
		return v.Str()
	}
	return v.Repr()
}

// Repr returns the form shown by the REPL: strings are quoted.
func (v Value) Repr() string {
	switch v.Type {
	case TypeNone:
		return ""
	case TypeNumber:
		return formatNumber(v)
	case TypeString:
		return strconv.Quote(v.Str())
	case TypeList:
		parts := make([]string, len(v.List().Elements))
		for i, elem := range v.List().Elements {
			parts[i] = elem.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeFunction:
		return fmt.Sprintf("<function %s>", v.Function().Name)
	case TypeBuiltin:
		return fmt.Sprintf("<built-in function %s>", v.Builtin().Name)
	default:
		return "<unknown>"
	}
}

func formatNumber(v Value) string {
	if v.IsInt() {
		return strconv.FormatInt(v.Int(), 10)
	}
	f := v.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
