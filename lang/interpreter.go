package lang

import "github.com/sergev/pulse/parser"

// Interpreter evaluates Pulse syntax trees.
type Interpreter struct {
	Global *Env
}

// NewInterpreter constructs an interpreter rooted at global. A nil global
// gets a fresh, empty environment.
func NewInterpreter(global *Env) *Interpreter {
	if global == nil {
		global = NewEnv(nil)
	}
	return &Interpreter{Global: global}
}

// Run evaluates a statement list produced by the parser in the global
// environment. No statements yield None, a single statement yields its
// value, several yield a List of their values.
func (in *Interpreter) Run(node parser.Node) (Value, error) {
	ctx := NewContext(ProgramName, nil, node.Start())
	res := in.Visit(node, in.Global, ctx)
	if res.Err != nil {
		return None, res.Err
	}
	if res.Returning {
		return res.ReturnValue, nil
	}
	if _, ok := node.(*parser.ListLiteral); !ok || res.Value.Type != TypeList {
		return res.Value, nil
	}
	elems := res.Value.List().Elements
	switch len(elems) {
	case 0:
		return None, nil
	case 1:
		return elems[0], nil
	default:
		return res.Value, nil
	}
}

// Visit evaluates node in env. ctx names the active call frame.
func (in *Interpreter) Visit(node parser.Node, env *Env, ctx *Context) *Result {
	switch n := node.(type) {
	case *parser.NumberLiteral:
		return in.visitNumber(n, ctx)
	case *parser.StringLiteral:
		return new(Result).Success(StringValue(n.Tok.Text()).WithPos(n.Start(), n.End()).WithContext(ctx))
	case *parser.ListLiteral:
		return in.visitList(n, env, ctx)
	case *parser.VarAccess:
		return in.visitVarAccess(n, env, ctx)
	case *parser.VarAssign:
		return in.visitVarAssign(n, env, ctx)
	case *parser.UnaryOp:
		return in.visitUnaryOp(n, env, ctx)
	case *parser.BinaryOp:
		return in.visitBinaryOp(n, env, ctx)
	case *parser.If:
		return in.visitIf(n, env, ctx)
	case *parser.For:
		return in.visitFor(n, env, ctx)
	case *parser.While:
		return in.visitWhile(n, env, ctx)
	case *parser.FuncDef:
		return in.visitFuncDef(n, env, ctx)
	case *parser.Call:
		return in.visitCall(n, env, ctx)
	case *parser.Return:
		return in.visitReturn(n, env, ctx)
	case *parser.Continue:
		return new(Result).SuccessContinue()
	case *parser.Break:
		return new(Result).SuccessBreak()
	}
	start, end := parser.Position{}, parser.Position{}
	if node != nil {
		start, end = node.Start(), node.End()
	}
	return new(Result).Failure(NewRuntimeError(start, end, ctx, "No visit method defined for %T", node))
}

func (in *Interpreter) visitNumber(n *parser.NumberLiteral, ctx *Context) *Result {
	var v Value
	switch num := n.Tok.Value.(type) {
	case int64:
		v = IntValue(num)
	case float64:
		v = FloatValue(num)
	default:
		return new(Result).Failure(NewRuntimeError(n.Start(), n.End(), ctx, "Invalid number literal %v", num))
	}
	return new(Result).Success(v.WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitList(n *parser.ListLiteral, env *Env, ctx *Context) *Result {
	res := &Result{}
	elems := make([]Value, 0, len(n.Elements))
	for _, elem := range n.Elements {
		v := res.Register(in.Visit(elem, env, ctx))
		if res.ShouldStop() {
			return res
		}
		elems = append(elems, v)
	}
	return res.Success(ListValue(elems...).WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitVarAccess(n *parser.VarAccess, env *Env, ctx *Context) *Result {
	res := &Result{}
	name := n.Name.Text()
	v, ok := env.Get(name)
	if !ok {
		return res.Failure(NewRuntimeError(n.Start(), n.End(), ctx, "'%s' is not defined", name))
	}
	return res.Success(v.WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitVarAssign(n *parser.VarAssign, env *Env, ctx *Context) *Result {
	res := &Result{}
	v := res.Register(in.Visit(n.Value, env, ctx))
	if res.ShouldStop() {
		return res
	}
	env.Define(n.Name.Text(), v)
	return res.Success(v)
}

func (in *Interpreter) visitUnaryOp(n *parser.UnaryOp, env *Env, ctx *Context) *Result {
	res := &Result{}
	v := res.Register(in.Visit(n.Operand, env, ctx))
	if res.ShouldStop() {
		return res
	}
	out, err := UnaryOp(n.Op, v, ctx)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(out.WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitBinaryOp(n *parser.BinaryOp, env *Env, ctx *Context) *Result {
	res := &Result{}
	left := res.Register(in.Visit(n.Left, env, ctx))
	if res.ShouldStop() {
		return res
	}
	right := res.Register(in.Visit(n.Right, env, ctx))
	if res.ShouldStop() {
		return res
	}
	out, err := BinaryOp(n.Op, left, right, ctx)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(out.WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitIf(n *parser.If, env *Env, ctx *Context) *Result {
	res := &Result{}
	for _, c := range n.Cases {
		cond := res.Register(in.Visit(c.Cond, env, ctx))
		if res.ShouldStop() {
			return res
		}
		if !cond.IsTrue() {
			continue
		}
		v := res.Register(in.Visit(c.Body, env, ctx))
		if res.ShouldStop() {
			return res
		}
		if c.ReturnsNull {
			return res.Success(Null)
		}
		return res.Success(v)
	}
	if n.Else != nil {
		v := res.Register(in.Visit(n.Else.Body, env, ctx))
		if res.ShouldStop() {
			return res
		}
		if n.Else.ReturnsNull {
			return res.Success(Null)
		}
		return res.Success(v)
	}
	return res.Success(Null)
}

func (in *Interpreter) number(node parser.Node, env *Env, ctx *Context, res *Result) (Value, bool) {
	v := res.Register(in.Visit(node, env, ctx))
	if res.ShouldStop() {
		return None, false
	}
	if v.Type != TypeNumber {
		res.Failure(NewRuntimeError(v.Start, v.End, ctx, "Expected number, got %s", v.Type))
		return None, false
	}
	return v, true
}

func (in *Interpreter) visitFor(n *parser.For, env *Env, ctx *Context) *Result {
	res := &Result{}
	start, ok := in.number(n.StartValue, env, ctx, res)
	if !ok {
		return res
	}
	end, ok := in.number(n.EndValue, env, ctx, res)
	if !ok {
		return res
	}
	step := IntValue(1)
	if n.Step != nil {
		if step, ok = in.number(n.Step, env, ctx, res); !ok {
			return res
		}
	}

	ascending := step.Float() >= 0
	inRange := func(i Value) bool {
		if ascending {
			return i.Float() < end.Float()
		}
		return i.Float() > end.Float()
	}

	name := n.Var.Text()
	var elems []Value
	for i := start; ; {
		env.Define(name, i)
		if !inRange(i) {
			break
		}
		v := res.Register(in.Visit(n.Body, env, ctx))
		if res.ShouldStop() && !res.Continuing && !res.Breaking {
			return res
		}
		if res.Breaking {
			break
		}
		if !res.Continuing {
			elems = append(elems, v)
		}
		i, _ = add(i, step, ctx)
	}

	if n.ReturnsNull {
		return res.Success(Null)
	}
	return res.Success(ListValue(elems...).WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitWhile(n *parser.While, env *Env, ctx *Context) *Result {
	res := &Result{}
	var elems []Value
	for {
		cond := res.Register(in.Visit(n.Cond, env, ctx))
		if res.ShouldStop() {
			return res
		}
		if !cond.IsTrue() {
			break
		}
		v := res.Register(in.Visit(n.Body, env, ctx))
		if res.ShouldStop() && !res.Continuing && !res.Breaking {
			return res
		}
		if res.Breaking {
			break
		}
		if !res.Continuing {
			elems = append(elems, v)
		}
	}

	if n.ReturnsNull {
		return res.Success(Null)
	}
	return res.Success(ListValue(elems...).WithPos(n.Start(), n.End()).WithContext(ctx))
}

func (in *Interpreter) visitFuncDef(n *parser.FuncDef, env *Env, ctx *Context) *Result {
	name := "<anonymous>"
	if n.Name != nil {
		name = n.Name.Text()
	}
	fn := FunctionValue(&Function{
		Name:       name,
		Params:     n.ParamNames(),
		Body:       n.Body,
		AutoReturn: n.AutoReturn,
		Env:        env,
	}).WithPos(n.Start(), n.End()).WithContext(ctx)
	if n.Name != nil {
		env.Define(name, fn)
	}
	return new(Result).Success(fn)
}

func (in *Interpreter) visitReturn(n *parser.Return, env *Env, ctx *Context) *Result {
	res := &Result{}
	v := Null
	if n.Value != nil {
		v = res.Register(in.Visit(n.Value, env, ctx))
		if res.ShouldStop() {
			return res
		}
	}
	return res.SuccessReturn(v)
}

func (in *Interpreter) visitCall(n *parser.Call, env *Env, ctx *Context) *Result {
	res := &Result{}
	callee := res.Register(in.Visit(n.Callee, env, ctx))
	if res.ShouldStop() {
		return res
	}
	callee = callee.WithPos(n.Start(), n.End())

	args := make([]Value, 0, len(n.Args))
	for _, arg := range n.Args {
		v := res.Register(in.Visit(arg, env, ctx))
		if res.ShouldStop() {
			return res
		}
		args = append(args, v)
	}

	v := res.Register(in.Call(callee, args, env, ctx))
	if res.ShouldStop() {
		return res
	}
	return res.Success(v.WithPos(n.Start(), n.End()).WithContext(ctx))
}

// Call invokes a Function or Builtin value with already evaluated
// arguments. The callee's span is used as the call site.
func (in *Interpreter) Call(callee Value, args []Value, env *Env, ctx *Context) *Result {
	res := &Result{}
	switch callee.Type {
	case TypeFunction:
		fn := callee.Function()
		if err := checkArgs(callee, fn.Params, args, ctx); err != nil {
			return res.Failure(err)
		}
		callCtx := NewContext(fn.Name, ctx, callee.Start)
		callEnv := NewEnv(fn.Env)
		bindArgs(callEnv, fn.Params, args, callCtx)

		v := res.Register(in.Visit(fn.Body, callEnv, callCtx))
		if res.Err != nil {
			return res
		}
		if res.Returning {
			v = res.ReturnValue
		} else if !fn.AutoReturn || res.Breaking || res.Continuing {
			v = Null
		}
		return res.Success(v)

	case TypeBuiltin:
		b := callee.Builtin()
		if err := checkArgs(callee, b.Params, args, ctx); err != nil {
			return res.Failure(err)
		}
		callCtx := NewContext(b.Name, ctx, callee.Start)
		callEnv := NewEnv(env)
		bindArgs(callEnv, b.Params, args, callCtx)

		frame := &Frame{Env: callEnv, Context: callCtx, Start: callee.Start, End: callee.End}
		v, err := b.Native(frame)
		if err != nil {
			return res.Failure(frame.wrap(err))
		}
		if v.IsNone() {
			v = Null
		}
		return res.Success(v)
	}
	return res.Failure(illegalOperation(callee, None, ctx))
}

func checkArgs(callee Value, params []string, args []Value, ctx *Context) *RuntimeError {
	switch {
	case len(args) > len(params):
		return NewRuntimeError(callee.Start, callee.End, ctx,
			"%d too many args passed into %s", len(args)-len(params), callee.Repr())
	case len(args) < len(params):
		return NewRuntimeError(callee.Start, callee.End, ctx,
			"%d too few args passed into %s", len(params)-len(args), callee.Repr())
	}
	return nil
}

func bindArgs(env *Env, params []string, args []Value, ctx *Context) {
	for i, name := range params {
		env.Define(name, args[i].WithContext(ctx))
	}
}
