package lang

import (
	"math"
	"strings"

	"github.com/sergev/pulse/parser"
)

// maxStringLen bounds the result of string repetition.
const maxStringLen = 1 << 30

// Constants installed into every global environment.
var (
	Null  = IntValue(0)
	True  = IntValue(1)
	False = IntValue(0)
)

func illegalOperation(l, r Value, ctx *Context) *RuntimeError {
	end := l.End
	if !r.IsNone() {
		end = r.End
	}
	return NewRuntimeError(l.Start, end, ctx, "Illegal operation")
}

// BinaryOp applies the infix operator op to l and r.
func BinaryOp(op parser.Token, l, r Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case op.Type == parser.TokenPlus:
		return add(l, r, ctx)
	case op.Type == parser.TokenMinus:
		return sub(l, r, ctx)
	case op.Type == parser.TokenMul:
		return mul(l, r, ctx)
	case op.Type == parser.TokenDiv:
		return div(l, r, ctx)
	case op.Type == parser.TokenPow:
		return pow(l, r, ctx)
	case op.Type == parser.TokenEE:
		return equal(l, r, false, ctx)
	case op.Type == parser.TokenNE:
		return equal(l, r, true, ctx)
	case op.Type == parser.TokenLT, op.Type == parser.TokenGT,
		op.Type == parser.TokenLTE, op.Type == parser.TokenGTE:
		return compare(op.Type, l, r, ctx)
	case op.Matches(parser.TokenKeyword, "AND"):
		return BoolValue(l.IsTrue() && r.IsTrue()), nil
	case op.Matches(parser.TokenKeyword, "OR"):
		return BoolValue(l.IsTrue() || r.IsTrue()), nil
	}
	return None, illegalOperation(l, r, ctx)
}

// UnaryOp applies the prefix operator op to v.
func UnaryOp(op parser.Token, v Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case op.Type == parser.TokenMinus:
		return mul(v, IntValue(-1).WithPos(op.Start, op.End), ctx)
	case op.Type == parser.TokenPlus:
		return v, nil
	case op.Matches(parser.TokenKeyword, "NOT"):
		return BoolValue(!v.IsTrue()), nil
	}
	return None, illegalOperation(v, None, ctx)
}

func bothNumbers(l, r Value) bool {
	return l.Type == TypeNumber && r.Type == TypeNumber
}

func bothInts(l, r Value) bool {
	return l.IsInt() && r.IsInt()
}

func add(l, r Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case bothNumbers(l, r):
		if bothInts(l, r) {
			if n, ok := addInts(l.Int(), r.Int()); ok {
				return IntValue(n), nil
			}
		}
		return FloatValue(l.Float() + r.Float()), nil
	case l.Type == TypeString && r.Type == TypeString:
		return StringValue(l.Str() + r.Str()), nil
	case l.Type == TypeList:
		elems := append(copyElements(l), r)
		return ListValue(elems...), nil
	}
	return None, illegalOperation(l, r, ctx)
}

func sub(l, r Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case bothNumbers(l, r):
		if bothInts(l, r) {
			if n, ok := subInts(l.Int(), r.Int()); ok {
				return IntValue(n), nil
			}
		}
		return FloatValue(l.Float() - r.Float()), nil
	case l.Type == TypeList && r.Type == TypeNumber:
		elems := copyElements(l)
		i, ok := ResolveIndex(r, len(elems))
		if !ok {
			return None, NewRuntimeError(r.Start, r.End, ctx,
				"Element at this index could not be removed from list because index is out of bounds")
		}
		return ListValue(append(elems[:i], elems[i+1:]...)...), nil
	}
	return None, illegalOperation(l, r, ctx)
}

func mul(l, r Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case bothNumbers(l, r):
		if bothInts(l, r) {
			if n, ok := mulInts(l.Int(), r.Int()); ok {
				return IntValue(n), nil
			}
		}
		return FloatValue(l.Float() * r.Float()), nil
	case l.Type == TypeString && r.Type == TypeNumber:
		if !r.IsInt() {
			return None, illegalOperation(l, r, ctx)
		}
		s, n := l.Str(), r.Int()
		if n < 0 {
			n = 0
		}
		if len(s) > 0 && n > maxStringLen/int64(len(s)) {
			return None, NewRuntimeError(l.Start, r.End, ctx, "String repetition result is too long")
		}
		return StringValue(strings.Repeat(s, int(n))), nil
	case l.Type == TypeList && r.Type == TypeList:
		elems := append(copyElements(l), r.List().Elements...)
		return ListValue(elems...), nil
	}
	return None, illegalOperation(l, r, ctx)
}

func div(l, r Value, ctx *Context) (Value, *RuntimeError) {
	switch {
	case bothNumbers(l, r):
		if r.Float() == 0 {
			return None, NewRuntimeError(r.Start, r.End, ctx, "Division by zero")
		}
		return FloatValue(l.Float() / r.Float()), nil
	case l.Type == TypeList && r.Type == TypeNumber:
		elems := l.List().Elements
		i, ok := ResolveIndex(r, len(elems))
		if !ok {
			return None, NewRuntimeError(r.Start, r.End, ctx,
				"Element at this index could not be retrieved from list because index is out of bounds")
		}
		return elems[i], nil
	}
	return None, illegalOperation(l, r, ctx)
}

func pow(l, r Value, ctx *Context) (Value, *RuntimeError) {
	if !bothNumbers(l, r) {
		return None, illegalOperation(l, r, ctx)
	}
	if bothInts(l, r) && r.Int() >= 0 {
		if n, ok := intPow(l.Int(), r.Int()); ok {
			return IntValue(n), nil
		}
	}
	return FloatValue(math.Pow(l.Float(), r.Float())), nil
}

// The integer helpers report false on int64 overflow; callers then
// compute the result as a float, like the lexer does for large literals.

func addInts(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func subInts(a, b int64) (int64, bool) {
	d := a - b
	return d, (d < a) == (b > 0)
}

func mulInts(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	return p, p/b == a
}

func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for {
		var ok bool
		if exp&1 == 1 {
			if result, ok = mulInts(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp == 0 {
			return result, true
		}
		if base, ok = mulInts(base, base); !ok {
			return 0, false
		}
	}
}

func equal(l, r Value, negate bool, ctx *Context) (Value, *RuntimeError) {
	var eq bool
	switch {
	case bothNumbers(l, r):
		if bothInts(l, r) {
			eq = l.Int() == r.Int()
		} else {
			eq = l.Float() == r.Float()
		}
	case l.Type == TypeString && r.Type == TypeString:
		eq = l.Str() == r.Str()
	default:
		return None, illegalOperation(l, r, ctx)
	}
	return BoolValue(eq != negate), nil
}

func compare(tt parser.TokenType, l, r Value, ctx *Context) (Value, *RuntimeError) {
	if !bothNumbers(l, r) {
		return None, illegalOperation(l, r, ctx)
	}
	var cmp int
	if bothInts(l, r) {
		cmp = compareOrdered(l.Int(), r.Int())
	} else {
		cmp = compareOrdered(l.Float(), r.Float())
	}
	switch tt {
	case parser.TokenLT:
		return BoolValue(cmp < 0), nil
	case parser.TokenGT:
		return BoolValue(cmp > 0), nil
	case parser.TokenLTE:
		return BoolValue(cmp <= 0), nil
	default:
		return BoolValue(cmp >= 0), nil
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func copyElements(list Value) []Value {
	src := list.List().Elements
	out := make([]Value, len(src), len(src)+1)
	copy(out, src)
	return out
}

// ResolveIndex maps idx onto [0, n); negative indices count from the end.
// Only integer indices resolve.
func ResolveIndex(idx Value, n int) (int, bool) {
	if !idx.IsInt() {
		return 0, false
	}
	i := idx.Int()
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, false
	}
	return int(i), true
}
