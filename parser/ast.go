package parser

// Node represents any AST node. Spans are used for diagnostics only.
type Node interface {
	Start() Position
	End() Position
	node()
}

// NumberLiteral is an INT or FLOAT token.
type NumberLiteral struct {
	Tok Token
}

func (n *NumberLiteral) Start() Position { return n.Tok.Start }
func (n *NumberLiteral) End() Position   { return n.Tok.End }
func (*NumberLiteral) node()             {}

// StringLiteral is a double-quoted string token.
type StringLiteral struct {
	Tok Token
}

func (n *StringLiteral) Start() Position { return n.Tok.Start }
func (n *StringLiteral) End() Position   { return n.Tok.End }
func (*StringLiteral) node()             {}

// ListLiteral is [a, b, ...]. A statement sequence is also represented as a
// ListLiteral whose elements are the statements.
type ListLiteral struct {
	Elements []Node
	StartPos Position
	EndPos   Position
}

func (n *ListLiteral) Start() Position { return n.StartPos }
func (n *ListLiteral) End() Position   { return n.EndPos }
func (*ListLiteral) node()             {}

// VarAccess refers to a variable or function name.
type VarAccess struct {
	Name Token
}

func (n *VarAccess) Start() Position { return n.Name.Start }
func (n *VarAccess) End() Position   { return n.Name.End }
func (*VarAccess) node()             {}

// VarAssign binds Name in the current scope; it is an expression.
type VarAssign struct {
	Name  Token
	Value Node
}

func (n *VarAssign) Start() Position { return n.Name.Start }
func (n *VarAssign) End() Position   { return n.Value.End() }
func (*VarAssign) node()             {}

// UnaryOp represents prefix operator application.
type UnaryOp struct {
	Op      Token
	Operand Node
}

func (n *UnaryOp) Start() Position { return n.Op.Start }
func (n *UnaryOp) End() Position   { return n.Operand.End() }
func (*UnaryOp) node()             {}

// BinaryOp represents infix operator application.
type BinaryOp struct {
	Left  Node
	Op    Token
	Right Node
}

func (n *BinaryOp) Start() Position { return n.Left.Start() }
func (n *BinaryOp) End() Position   { return n.Right.End() }
func (*BinaryOp) node()             {}

// IfCase is one IF or ELIF arm.
type IfCase struct {
	Cond        Node
	Body        Node
	ReturnsNull bool // block body; the arm evaluates to NULL
}

// ElseCase is the optional ELSE arm.
type ElseCase struct {
	Body        Node
	ReturnsNull bool
}

// If conditionally evaluates one of its arms.
type If struct {
	Cases []IfCase
	Else  *ElseCase // may be nil
}

func (n *If) Start() Position { return n.Cases[0].Cond.Start() }
func (n *If) End() Position {
	if n.Else != nil {
		return n.Else.Body.End()
	}
	return n.Cases[len(n.Cases)-1].Body.End()
}
func (*If) node() {}

// For counts Var from StartValue towards EndValue by Step.
type For struct {
	Var         Token
	StartValue  Node
	EndValue    Node
	Step        Node // may be nil
	Body        Node
	ReturnsNull bool
}

func (n *For) Start() Position { return n.Var.Start }
func (n *For) End() Position   { return n.Body.End() }
func (*For) node()             {}

// While repeats Body while Cond is truthy.
type While struct {
	Cond        Node
	Body        Node
	ReturnsNull bool
}

func (n *While) Start() Position { return n.Cond.Start() }
func (n *While) End() Position   { return n.Body.End() }
func (*While) node()             {}

// FuncDef defines a named or anonymous function.
type FuncDef struct {
	Name       *Token // nil for anonymous functions
	Params     []Token
	Body       Node
	AutoReturn bool // one-line body whose value is the result
	StartPos   Position
}

func (n *FuncDef) Start() Position { return n.StartPos }
func (n *FuncDef) End() Position   { return n.Body.End() }
func (*FuncDef) node()             {}

// ParamNames returns the parameter names in order.
func (n *FuncDef) ParamNames() []string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Text()
	}
	return names
}

// Call invokes Callee with Args.
type Call struct {
	Callee Node
	Args   []Node
	EndPos Position
}

func (n *Call) Start() Position { return n.Callee.Start() }
func (n *Call) End() Position   { return n.EndPos }
func (*Call) node()             {}

// Return exits the current function, optionally with a value.
type Return struct {
	Value    Node // may be nil
	StartPos Position
	EndPos   Position
}

func (n *Return) Start() Position { return n.StartPos }
func (n *Return) End() Position   { return n.EndPos }
func (*Return) node()             {}

// Continue skips to the next loop iteration.
type Continue struct {
	StartPos Position
	EndPos   Position
}

func (n *Continue) Start() Position { return n.StartPos }
func (n *Continue) End() Position   { return n.EndPos }
func (*Continue) node()             {}

// Break leaves the innermost loop.
type Break struct {
	StartPos Position
	EndPos   Position
}

func (n *Break) Start() Position { return n.StartPos }
func (n *Break) End() Position   { return n.EndPos }
func (*Break) node()             {}
