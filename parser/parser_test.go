package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func mustParse(t *testing.T, src string) *ListLiteral {
	t.Helper()
	node, err := ParseString("<test>", src)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", src, err)
	}
	list, ok := node.(*ListLiteral)
	if !ok {
		t.Fatalf("expected statement list, got %T", node)
	}
	return list
}

func parseError(t *testing.T, src string) *Error {
	t.Helper()
	_, err := ParseString("<test>", src)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("ParseString(%q): expected *Error, got %v", src, err)
	}
	return perr
}

func TestParseRendering(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "[(1 + (2 * 3))]"},
		{"2 ^ 3 ^ 2", "[(2 ^ (3 ^ 2))]"},
		{"2 ^ -1", "[(2 ^ (- 1))]"},
		{"-x ^ 2", "[(- (x ^ 2))]"},
		{"1 - 2 - 3", "[((1 - 2) - 3)]"},
		{"NOT a == b AND c", "[((NOT (a == b)) AND c)]"},
		{"VAR a = VAR b = 3", "[(VAR a (VAR b 3))]"},
		{"f(1, [2, 3])", "[(call f [1, [2, 3]])]"},
		{"g()", "[(call g [])]"},
		{`"hi" * 2`, `[("hi" * 2)]`},
		{"IF a THEN 1 ELIF b THEN 2 ELSE 3", "[(IF a 1 b 2 ELSE 3)]"},
		{"FOR i = 0 TO 10 STEP 2 THEN i", "[(FOR i 0 10 2 i)]"},
		{"WHILE x < 3 THEN VAR x = x + 1", "[(WHILE (x < 3) (VAR x (x + 1)))]"},
		{"FUN add(a, b) -> a + b", "[(FUN add [a b] (a + b))]"},
		{"FUN (x) -> x", "[(FUN <anonymous> [x] x)]"},
		{"1; 2\n\n3", "[1, 2, 3]"},
		{"", "[]"},
	}
	for _, tt := range tests {
		list := mustParse(t, tt.src)
		if got := String(list); got != tt.want {
			t.Errorf("%q: got %s, want %s\n%s", tt.src, got, tt.want, spew.Sdump(list))
		}
	}
}

func TestParseBlocks(t *testing.T) {
	src := `
FUN fact(n)
	IF n <= 1 THEN RETURN 1
	RETURN n * fact(n - 1)
END

FOR i = 0 TO 3 THEN
	IF i == 1 THEN
		CONTINUE
	ELSE
		BREAK
	END
END
`
	list := mustParse(t, src)
	if len(list.Elements) != 2 {
		t.Fatalf("expected 2 statements, got %d\n%s", len(list.Elements), spew.Sdump(list))
	}

	fn, ok := list.Elements[0].(*FuncDef)
	if !ok {
		t.Fatalf("expected FuncDef, got %T", list.Elements[0])
	}
	if fn.AutoReturn {
		t.Fatalf("block function should not auto-return")
	}
	body := fn.Body.(*ListLiteral)
	if len(body.Elements) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(body.Elements))
	}
	if _, ok := body.Elements[1].(*Return); !ok {
		t.Fatalf("expected trailing Return, got %T", body.Elements[1])
	}

	loop, ok := list.Elements[1].(*For)
	if !ok || !loop.ReturnsNull {
		t.Fatalf("expected block For, got %s", spew.Sdump(list.Elements[1]))
	}
	branch := loop.Body.(*ListLiteral).Elements[0].(*If)
	if !branch.Cases[0].ReturnsNull || branch.Else == nil || !branch.Else.ReturnsNull {
		t.Fatalf("expected block IF with block ELSE, got %s", spew.Sdump(branch))
	}
	if _, ok := branch.Else.Body.(*ListLiteral).Elements[0].(*Break); !ok {
		t.Fatalf("expected BREAK in else branch")
	}
}

func TestParseReturnWithoutValue(t *testing.T) {
	list := mustParse(t, "FUN f()\n\tRETURN\nEND")
	ret := list.Elements[0].(*FuncDef).Body.(*ListLiteral).Elements[0].(*Return)
	if ret.Value != nil {
		t.Fatalf("expected bare RETURN, got %s", String(ret.Value))
	}
}

func TestParseSpans(t *testing.T) {
	list := mustParse(t, "VAR total = 10 / 0")
	assign := list.Elements[0].(*VarAssign)
	if assign.Start().Offset != 4 || assign.End().Offset != 18 {
		t.Fatalf("assignment span = [%d,%d)", assign.Start().Offset, assign.End().Offset)
	}
	div := assign.Value.(*BinaryOp)
	if div.Right.Start().Offset != 17 || div.Right.End().Offset != 18 {
		t.Fatalf("divisor span = [%d,%d)", div.Right.Start().Offset, div.Right.End().Offset)
	}
	call := mustParse(t, "f(1)").Elements[0].(*Call)
	if call.End().Offset != 4 {
		t.Fatalf("call should end after ')', got %d", call.End().Offset)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src        string
		details    string
		incomplete bool
	}{
		{"VAR = 1", "Expected identifier", false},
		{"VAR x 1", "Expected '='", false},
		{"1 +", "Expected int, float, identifier", true},
		{"(1 + 2", "Expected ')'", true},
		{"1 2", "Token cannot appear after previous tokens", false},
		{"f(1 2)", "Expected ',' or ')'", false},
		{"[1, 2", "Expected ',' or ']'", true},
		{"IF x THEN\n1", "Expected 'END'", true},
		{"IF x 1", "Expected 'THEN'", false},
		{"FOR i = 0 THEN 1", "Expected 'TO'", false},
		{"FUN f() 1", "Expected '->' or NEWLINE", false},
		{"FUN 1", "Expected identifier or '('", false},
		{"WHILE x THEN\n1\n", "Expected 'END'", true},
		{")", "Expected 'RETURN', 'CONTINUE', 'BREAK'", false},
		{"1\nVAR y", "Expected '='", true},
	}
	for _, tt := range tests {
		perr := parseError(t, tt.src)
		if perr.Kind != InvalidSyntax {
			t.Errorf("%q: expected InvalidSyntax, got %s", tt.src, perr.Kind)
		}
		if !strings.HasPrefix(perr.Details, tt.details) {
			t.Errorf("%q: details %q do not start with %q", tt.src, perr.Details, tt.details)
		}
		if perr.Incomplete != tt.incomplete {
			t.Errorf("%q: incomplete = %v, want %v", tt.src, perr.Incomplete, tt.incomplete)
		}
	}
}

func TestParseIncompleteDetection(t *testing.T) {
	_, err := ParseString("<test>", "FUN f()\n\tVAR a = 1")
	if !IsIncomplete(err) {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if _, err := ParseString("<test>", "1 2"); IsIncomplete(err) {
		t.Fatalf("did not expect incomplete error for trailing token")
	}
}
