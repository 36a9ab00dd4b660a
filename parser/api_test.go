package parser

import (
	"strings"
	"testing"
)

func TestParseReader(t *testing.T) {
	node, err := ParseReader("script.pls", strings.NewReader("VAR answer = 41\nanswer + 1\n"))
	if err != nil {
		t.Fatalf("ParseReader returned error: %v", err)
	}
	if got := String(node); got != "[(VAR answer 41), (answer + 1)]" {
		t.Fatalf("unexpected tree %s", got)
	}
}

func TestParseStringReportsLocation(t *testing.T) {
	_, err := ParseString("script.pls", "VAR a = 1\nVAR = 2")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	want := "Invalid Syntax: Expected identifier\nFile script.pls, line 2\n\nVAR = 2\n    ^"
	if got := perr.Report(); got != want {
		t.Fatalf("report mismatch:\n%s\nwant:\n%s", got, want)
	}
}
