package parser

import "fmt"

const (
	expectedExpr      = "Expected 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"
	expectedStatement = "Expected 'RETURN', 'CONTINUE', 'BREAK', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"
	expectedOperand   = "Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN' or 'NOT'"
	expectedAtom      = "Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE' or 'FUN'"
)

// Parse builds the AST for a token sequence produced by Tokenize. The root is
// a ListLiteral holding the top-level statements.
func Parse(tokens []Token) (Node, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		var end Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].End
		}
		tokens = append(tokens, Token{Type: TokenEOF, Start: end, End: end})
	}
	p := &parser{tokens: tokens, idx: -1}
	p.advance()

	res := p.statements()
	if res.err == nil && p.curr.Type != TokenEOF {
		res.failure(p.syntaxError("Token cannot appear after previous tokens"))
	}
	if res.err != nil {
		return res.node, res.err
	}
	return res.node, nil
}

type parser struct {
	tokens []Token
	idx    int
	curr   Token
}

func (p *parser) advance() {
	p.idx++
	p.updateCurrent()
}

func (p *parser) reverse(n int) {
	p.idx -= n
	p.updateCurrent()
}

func (p *parser) updateCurrent() {
	if p.idx >= 0 && p.idx < len(p.tokens) {
		p.curr = p.tokens[p.idx]
	}
}

// step consumes the current token on behalf of res.
func (p *parser) step(res *parseResult) {
	res.registerAdvancement()
	p.advance()
}

// prevEnd is the end of the most recently consumed token.
func (p *parser) prevEnd() Position {
	if p.idx > 0 && p.idx-1 < len(p.tokens) {
		return p.tokens[p.idx-1].End
	}
	return p.curr.Start
}

func (p *parser) isKeyword(word string) bool {
	return p.curr.Matches(TokenKeyword, word)
}

func (p *parser) syntaxError(format string, args ...interface{}) *Error {
	err := newError(InvalidSyntax, p.curr.Start, p.curr.End, format, args...)
	err.Incomplete = p.curr.Type == TokenEOF
	return err
}

func (p *parser) statements() *parseResult {
	res := &parseResult{}
	start := p.curr.Start
	var stmts []Node

	for p.curr.Type == TokenNewline {
		p.step(res)
	}
	if p.curr.Type == TokenEOF || p.isKeyword("END") {
		return res.success(&ListLiteral{StartPos: start, EndPos: p.curr.Start})
	}

	stmt := res.register(p.statement())
	if res.err != nil {
		return res
	}
	stmts = append(stmts, stmt)

	for {
		newlines := 0
		for p.curr.Type == TokenNewline {
			p.step(res)
			newlines++
		}
		if newlines == 0 {
			break
		}
		sub := p.statement()
		if sub.err != nil && sub.advanceCount > 0 {
			res.register(sub)
			return res
		}
		stmt := res.tryRegister(sub)
		if stmt == nil {
			p.reverse(res.toReverseCount)
			break
		}
		stmts = append(stmts, stmt)
	}

	return res.success(&ListLiteral{
		Elements: stmts,
		StartPos: start,
		EndPos:   p.prevEnd(),
	})
}

func (p *parser) statement() *parseResult {
	res := &parseResult{}
	start := p.curr.Start

	switch {
	case p.isKeyword("RETURN"):
		p.step(res)
		sub := p.expr()
		if sub.err != nil && sub.advanceCount > 0 {
			res.register(sub)
			return res
		}
		value := res.tryRegister(sub)
		if value == nil {
			p.reverse(res.toReverseCount)
		}
		return res.success(&Return{Value: value, StartPos: start, EndPos: p.prevEnd()})
	case p.isKeyword("CONTINUE"):
		p.step(res)
		return res.success(&Continue{StartPos: start, EndPos: p.prevEnd()})
	case p.isKeyword("BREAK"):
		p.step(res)
		return res.success(&Break{StartPos: start, EndPos: p.prevEnd()})
	}

	expr := res.register(p.expr())
	if res.err != nil {
		return res.failure(p.syntaxError(expectedStatement))
	}
	return res.success(expr)
}

func (p *parser) expr() *parseResult {
	res := &parseResult{}

	if p.isKeyword("VAR") {
		p.step(res)
		if p.curr.Type != TokenIdentifier {
			return res.failure(p.syntaxError("Expected identifier"))
		}
		name := p.curr
		p.step(res)
		if p.curr.Type != TokenEq {
			return res.failure(p.syntaxError("Expected '='"))
		}
		p.step(res)
		value := res.register(p.expr())
		if res.err != nil {
			return res
		}
		return res.success(&VarAssign{Name: name, Value: value})
	}

	node := res.register(p.binOp(p.compExpr, []opMatch{{kw: "AND"}, {kw: "OR"}}, nil))
	if res.err != nil {
		return res.failure(p.syntaxError(expectedExpr))
	}
	return res.success(node)
}

func (p *parser) compExpr() *parseResult {
	res := &parseResult{}

	if p.isKeyword("NOT") {
		op := p.curr
		p.step(res)
		operand := res.register(p.compExpr())
		if res.err != nil {
			return res
		}
		return res.success(&UnaryOp{Op: op, Operand: operand})
	}

	node := res.register(p.binOp(p.arithExpr, []opMatch{
		{tt: TokenEE}, {tt: TokenNE}, {tt: TokenLT}, {tt: TokenGT}, {tt: TokenLTE}, {tt: TokenGTE},
	}, nil))
	if res.err != nil {
		return res.failure(p.syntaxError(expectedOperand))
	}
	return res.success(node)
}

func (p *parser) arithExpr() *parseResult {
	return p.binOp(p.term, []opMatch{{tt: TokenPlus}, {tt: TokenMinus}}, nil)
}

func (p *parser) term() *parseResult {
	return p.binOp(p.factor, []opMatch{{tt: TokenMul}, {tt: TokenDiv}}, nil)
}

func (p *parser) factor() *parseResult {
	res := &parseResult{}
	if p.curr.Type == TokenPlus || p.curr.Type == TokenMinus {
		op := p.curr
		p.step(res)
		operand := res.register(p.factor())
		if res.err != nil {
			return res
		}
		return res.success(&UnaryOp{Op: op, Operand: operand})
	}
	return p.power()
}

// power binds its right operand through factor, so "2 ^ 3 ^ 2" groups to
// the right and "2 ^ -1" is accepted.
func (p *parser) power() *parseResult {
	return p.binOp(p.call, []opMatch{{tt: TokenPow}}, p.factor)
}

func (p *parser) call() *parseResult {
	res := &parseResult{}
	callee := res.register(p.atom())
	if res.err != nil {
		return res
	}
	if p.curr.Type != TokenLParen {
		return res.success(callee)
	}

	p.step(res)
	var args []Node
	if p.curr.Type == TokenRParen {
		p.step(res)
	} else {
		arg := res.register(p.expr())
		if res.err != nil {
			return res.failure(p.syntaxError("Expected ')', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
		}
		args = append(args, arg)
		for p.curr.Type == TokenComma {
			p.step(res)
			arg := res.register(p.expr())
			if res.err != nil {
				return res
			}
			args = append(args, arg)
		}
		if p.curr.Type != TokenRParen {
			return res.failure(p.syntaxError("Expected ',' or ')'"))
		}
		p.step(res)
	}
	return res.success(&Call{Callee: callee, Args: args, EndPos: p.prevEnd()})
}

func (p *parser) atom() *parseResult {
	res := &parseResult{}
	tok := p.curr

	switch {
	case tok.Type == TokenInt || tok.Type == TokenFloat:
		p.step(res)
		return res.success(&NumberLiteral{Tok: tok})
	case tok.Type == TokenString:
		p.step(res)
		return res.success(&StringLiteral{Tok: tok})
	case tok.Type == TokenIdentifier:
		p.step(res)
		return res.success(&VarAccess{Name: tok})
	case tok.Type == TokenLParen:
		p.step(res)
		expr := res.register(p.expr())
		if res.err != nil {
			return res
		}
		if p.curr.Type != TokenRParen {
			return res.failure(p.syntaxError("Expected ')'"))
		}
		p.step(res)
		return res.success(expr)
	case tok.Type == TokenLSquare:
		node := res.register(p.listExpr())
		if res.err != nil {
			return res
		}
		return res.success(node)
	case p.isKeyword("IF"):
		node := res.register(p.ifExpr())
		if res.err != nil {
			return res
		}
		return res.success(node)
	case p.isKeyword("FOR"):
		node := res.register(p.forExpr())
		if res.err != nil {
			return res
		}
		return res.success(node)
	case p.isKeyword("WHILE"):
		node := res.register(p.whileExpr())
		if res.err != nil {
			return res
		}
		return res.success(node)
	case p.isKeyword("FUN"):
		node := res.register(p.funcDef())
		if res.err != nil {
			return res
		}
		return res.success(node)
	}
	return res.failure(p.syntaxError(expectedAtom))
}

func (p *parser) listExpr() *parseResult {
	res := &parseResult{}
	start := p.curr.Start
	if p.curr.Type != TokenLSquare {
		return res.failure(p.syntaxError("Expected '['"))
	}
	p.step(res)

	var elems []Node
	if p.curr.Type == TokenRSquare {
		p.step(res)
	} else {
		elem := res.register(p.expr())
		if res.err != nil {
			return res.failure(p.syntaxError("Expected ']', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
		}
		elems = append(elems, elem)
		for p.curr.Type == TokenComma {
			p.step(res)
			elem := res.register(p.expr())
			if res.err != nil {
				return res
			}
			elems = append(elems, elem)
		}
		if p.curr.Type != TokenRSquare {
			return res.failure(p.syntaxError("Expected ',' or ']'"))
		}
		p.step(res)
	}
	return res.success(&ListLiteral{Elements: elems, StartPos: start, EndPos: p.prevEnd()})
}

func (p *parser) ifExpr() *parseResult {
	res := &parseResult{}
	cases, elseCase := p.ifCases(res, "IF")
	if res.err != nil {
		return res
	}
	return res.success(&If{Cases: cases, Else: elseCase})
}

// ifCases parses an IF or ELIF arm and everything chained after it.
func (p *parser) ifCases(res *parseResult, keyword string) ([]IfCase, *ElseCase) {
	if !p.isKeyword(keyword) {
		res.failure(p.syntaxError("Expected '%s'", keyword))
		return nil, nil
	}
	p.step(res)

	cond := res.register(p.expr())
	if res.err != nil {
		return nil, nil
	}
	if !p.isKeyword("THEN") {
		res.failure(p.syntaxError("Expected 'THEN'"))
		return nil, nil
	}
	p.step(res)

	var cases []IfCase
	if p.curr.Type == TokenNewline {
		p.step(res)
		body := res.register(p.statements())
		if res.err != nil {
			return nil, nil
		}
		cases = append(cases, IfCase{Cond: cond, Body: body, ReturnsNull: true})
		if p.isKeyword("END") {
			p.step(res)
			return cases, nil
		}
		if !p.isKeyword("ELIF") && !p.isKeyword("ELSE") {
			res.failure(p.syntaxError("Expected 'END'"))
			return nil, nil
		}
	} else {
		body := res.register(p.statement())
		if res.err != nil {
			return nil, nil
		}
		cases = append(cases, IfCase{Cond: cond, Body: body})
	}

	more, elseCase := p.elifOrElse(res)
	if res.err != nil {
		return nil, nil
	}
	return append(cases, more...), elseCase
}

func (p *parser) elifOrElse(res *parseResult) ([]IfCase, *ElseCase) {
	if p.isKeyword("ELIF") {
		return p.ifCases(res, "ELIF")
	}
	if !p.isKeyword("ELSE") {
		return nil, nil
	}
	p.step(res)

	if p.curr.Type == TokenNewline {
		p.step(res)
		body := res.register(p.statements())
		if res.err != nil {
			return nil, nil
		}
		if !p.isKeyword("END") {
			res.failure(p.syntaxError("Expected 'END'"))
			return nil, nil
		}
		p.step(res)
		return nil, &ElseCase{Body: body, ReturnsNull: true}
	}

	body := res.register(p.statement())
	if res.err != nil {
		return nil, nil
	}
	return nil, &ElseCase{Body: body}
}

func (p *parser) forExpr() *parseResult {
	res := &parseResult{}
	if !p.isKeyword("FOR") {
		return res.failure(p.syntaxError("Expected 'FOR'"))
	}
	p.step(res)

	if p.curr.Type != TokenIdentifier {
		return res.failure(p.syntaxError("Expected identifier"))
	}
	name := p.curr
	p.step(res)

	if p.curr.Type != TokenEq {
		return res.failure(p.syntaxError("Expected '='"))
	}
	p.step(res)

	startValue := res.register(p.expr())
	if res.err != nil {
		return res
	}
	if !p.isKeyword("TO") {
		return res.failure(p.syntaxError("Expected 'TO'"))
	}
	p.step(res)

	endValue := res.register(p.expr())
	if res.err != nil {
		return res
	}

	var step Node
	if p.isKeyword("STEP") {
		p.step(res)
		step = res.register(p.expr())
		if res.err != nil {
			return res
		}
	}

	if !p.isKeyword("THEN") {
		return res.failure(p.syntaxError("Expected 'THEN'"))
	}
	p.step(res)

	body, block := p.loopBody(res)
	if res.err != nil {
		return res
	}
	return res.success(&For{
		Var:         name,
		StartValue:  startValue,
		EndValue:    endValue,
		Step:        step,
		Body:        body,
		ReturnsNull: block,
	})
}

func (p *parser) whileExpr() *parseResult {
	res := &parseResult{}
	if !p.isKeyword("WHILE") {
		return res.failure(p.syntaxError("Expected 'WHILE'"))
	}
	p.step(res)

	cond := res.register(p.expr())
	if res.err != nil {
		return res
	}
	if !p.isKeyword("THEN") {
		return res.failure(p.syntaxError("Expected 'THEN'"))
	}
	p.step(res)

	body, block := p.loopBody(res)
	if res.err != nil {
		return res
	}
	return res.success(&While{Cond: cond, Body: body, ReturnsNull: block})
}

// loopBody parses either a one-line statement or NEWLINE statements END.
func (p *parser) loopBody(res *parseResult) (Node, bool) {
	if p.curr.Type == TokenNewline {
		p.step(res)
		body := res.register(p.statements())
		if res.err != nil {
			return nil, true
		}
		if !p.isKeyword("END") {
			res.failure(p.syntaxError("Expected 'END'"))
			return nil, true
		}
		p.step(res)
		return body, true
	}
	body := res.register(p.statement())
	return body, false
}

func (p *parser) funcDef() *parseResult {
	res := &parseResult{}
	start := p.curr.Start
	if !p.isKeyword("FUN") {
		return res.failure(p.syntaxError("Expected 'FUN'"))
	}
	p.step(res)

	var name *Token
	if p.curr.Type == TokenIdentifier {
		tok := p.curr
		name = &tok
		p.step(res)
		if p.curr.Type != TokenLParen {
			return res.failure(p.syntaxError("Expected '('"))
		}
	} else if p.curr.Type != TokenLParen {
		return res.failure(p.syntaxError("Expected identifier or '('"))
	}
	p.step(res)

	var params []Token
	if p.curr.Type == TokenIdentifier {
		params = append(params, p.curr)
		p.step(res)
		for p.curr.Type == TokenComma {
			p.step(res)
			if p.curr.Type != TokenIdentifier {
				return res.failure(p.syntaxError("Expected identifier"))
			}
			params = append(params, p.curr)
			p.step(res)
		}
		if p.curr.Type != TokenRParen {
			return res.failure(p.syntaxError("Expected ',' or ')'"))
		}
	} else if p.curr.Type != TokenRParen {
		return res.failure(p.syntaxError("Expected identifier or ')'"))
	}
	p.step(res)

	if p.curr.Type == TokenArrow {
		p.step(res)
		body := res.register(p.expr())
		if res.err != nil {
			return res
		}
		return res.success(&FuncDef{Name: name, Params: params, Body: body, AutoReturn: true, StartPos: start})
	}

	if p.curr.Type != TokenNewline {
		return res.failure(p.syntaxError("Expected '->' or NEWLINE"))
	}
	p.step(res)

	body := res.register(p.statements())
	if res.err != nil {
		return res
	}
	if !p.isKeyword("END") {
		return res.failure(p.syntaxError("Expected 'END'"))
	}
	p.step(res)
	return res.success(&FuncDef{Name: name, Params: params, Body: body, StartPos: start})
}

// opMatch selects an operator token by type or, when kw is set, by keyword.
type opMatch struct {
	tt TokenType
	kw string
}

func (p *parser) matchesOp(ops []opMatch) bool {
	for _, op := range ops {
		if op.kw != "" {
			if p.isKeyword(op.kw) {
				return true
			}
			continue
		}
		if p.curr.Type == op.tt {
			return true
		}
	}
	return false
}

// binOp parses operand (op operand)* folding to the left. right, when
// non-nil, parses the right-hand operands instead of left.
func (p *parser) binOp(left func() *parseResult, ops []opMatch, right func() *parseResult) *parseResult {
	if right == nil {
		right = left
	}
	res := &parseResult{}
	node := res.register(left())
	if res.err != nil {
		return res
	}
	for p.matchesOp(ops) {
		op := p.curr
		p.step(res)
		rhs := res.register(right())
		if res.err != nil {
			return res
		}
		node = &BinaryOp{Left: node, Op: op, Right: rhs}
	}
	return res.success(node)
}

// String renders a node as a parenthesised tree, mainly for tests and
// debugging output.
func String(n Node) string {
	switch n := n.(type) {
	case nil:
		return "<nil>"
	case *NumberLiteral:
		return fmt.Sprint(n.Tok.Value)
	case *StringLiteral:
		return fmt.Sprintf("%q", n.Tok.Text())
	case *ListLiteral:
		return "[" + joinNodes(n.Elements) + "]"
	case *VarAccess:
		return n.Name.Text()
	case *VarAssign:
		return fmt.Sprintf("(VAR %s %s)", n.Name.Text(), String(n.Value))
	case *UnaryOp:
		return fmt.Sprintf("(%s %s)", opText(n.Op), String(n.Operand))
	case *BinaryOp:
		return fmt.Sprintf("(%s %s %s)", String(n.Left), opText(n.Op), String(n.Right))
	case *If:
		out := "(IF"
		for _, c := range n.Cases {
			out += fmt.Sprintf(" %s %s", String(c.Cond), String(c.Body))
		}
		if n.Else != nil {
			out += " ELSE " + String(n.Else.Body)
		}
		return out + ")"
	case *For:
		step := "1"
		if n.Step != nil {
			step = String(n.Step)
		}
		return fmt.Sprintf("(FOR %s %s %s %s %s)", n.Var.Text(), String(n.StartValue), String(n.EndValue), step, String(n.Body))
	case *While:
		return fmt.Sprintf("(WHILE %s %s)", String(n.Cond), String(n.Body))
	case *FuncDef:
		name := "<anonymous>"
		if n.Name != nil {
			name = n.Name.Text()
		}
		return fmt.Sprintf("(FUN %s %v %s)", name, n.ParamNames(), String(n.Body))
	case *Call:
		return fmt.Sprintf("(call %s [%s])", String(n.Callee), joinNodes(n.Args))
	case *Return:
		if n.Value == nil {
			return "(RETURN)"
		}
		return fmt.Sprintf("(RETURN %s)", String(n.Value))
	case *Continue:
		return "(CONTINUE)"
	case *Break:
		return "(BREAK)"
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

func joinNodes(nodes []Node) string {
	out := ""
	for i, n := range nodes {
		if i > 0 {
			out += ", "
		}
		out += String(n)
	}
	return out
}

func opText(tok Token) string {
	if tok.Type == TokenKeyword {
		return tok.Text()
	}
	switch tok.Type {
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMul:
		return "*"
	case TokenDiv:
		return "/"
	case TokenPow:
		return "^"
	case TokenEE:
		return "=="
	case TokenNE:
		return "!="
	case TokenLT:
		return "<"
	case TokenGT:
		return ">"
	case TokenLTE:
		return "<="
	case TokenGTE:
		return ">="
	}
	return tok.Type.String()
}
