package runtime

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/sync/errgroup"

	"github.com/sergev/pulse/lang"
)

func TestRunUnwrapsStatements(t *testing.T) {
	std := NewStdlib()

	val, err := std.Run("<test>", "")
	if err != nil || !val.IsNone() {
		t.Fatalf("empty program = (%v, %v), want none", val.Repr(), err)
	}
	val, err = std.Run("<test>", "40 + 2")
	if err != nil || val.Repr() != "42" {
		t.Fatalf("single statement = (%v, %v), want 42", val.Repr(), err)
	}
	val, err = std.Run("<test>", "1\n2")
	if err != nil || val.Type != lang.TypeList || val.Repr() != "[1, 2]" {
		t.Fatalf("two statements = (%v, %v), want [1, 2]", val.Repr(), err)
	}
}

func TestRunsDoNotShareGlobals(t *testing.T) {
	std := NewStdlib()
	if _, err := std.Run("<first>", "VAR leaked = 1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := std.Run("<second>", "leaked"); err == nil {
		t.Fatalf("expected second run not to see leaked binding")
	}
}

func TestRunInKeepsBindings(t *testing.T) {
	std := NewStdlib()
	global := std.NewGlobal()
	if _, err := std.RunIn(global, "<repl>", "VAR x = 20"); err != nil {
		t.Fatalf("first line: %v", err)
	}
	val, err := std.RunIn(global, "<repl>", "x + 1")
	if err != nil || val.Repr() != "21" {
		t.Fatalf("second line = (%v, %v), want 21", val.Repr(), err)
	}
}

func TestNewGlobalBindings(t *testing.T) {
	global := NewStdlib().NewGlobal()
	names := []string{
		"NULL", "TRUE", "FALSE", "MATH_PI", "ARGV",
		"print", "print_ret", "input", "input_int", "clear",
		"is_number", "is_string", "is_list", "is_function",
		"append", "pop", "extend", "len", "run",
	}
	for _, name := range names {
		if _, ok := global.Get(name); !ok {
			t.Errorf("global %s is not defined", name)
		}
	}
}

func TestArgv(t *testing.T) {
	std := NewStdlib(WithArgs([]string{"a", "b"}))
	val, err := std.Run("<test>", "append(ARGV, \"c\")\nARGV")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := val.Repr(); got != `[0, ["a", "b", "c"]]` {
		t.Fatalf("ARGV = %s", got)
	}
	val, err = std.Run("<test>", "len(ARGV)")
	if err != nil || val.Repr() != "2" {
		t.Fatalf("second run should see original arguments, got (%s, %v)", val.Repr(), err)
	}
}

func TestReport(t *testing.T) {
	std := NewStdlib()

	_, err := std.Run("demo.pls", "VAR a = 1\nFUN f(x) -> x / 0\nf(a)")
	want := "Traceback (most recent call last):\n" +
		"  File demo.pls, line 3, in <program>\n" +
		"  File demo.pls, line 2, in f\n" +
		"Runtime Error: Division by zero\n\n" +
		"FUN f(x) -> x / 0\n" +
		"                ^"
	if got := Report(err); got != want {
		t.Fatalf("runtime report mismatch:\n%s\nwant:\n%s", got, want)
	}

	_, err = std.Run("demo.pls", "1 +\n")
	if got := Report(err); !strings.HasPrefix(got, "Invalid Syntax: Expected int, float, identifier") ||
		!strings.Contains(got, "File demo.pls, line 1") {
		t.Fatalf("unexpected syntax report:\n%s", got)
	}

	if got := Report(fmt.Errorf("plain")); got != "plain" {
		t.Fatalf("plain errors should render as is, got %q", got)
	}
}

func TestRunBuiltin(t *testing.T) {
	scripts := fstest.MapFS{
		"lib.pls":    {Data: []byte("VAR shared = 1\nprint(\"lib loaded\")\n")},
		"broken.pls": {Data: []byte("FUN g() -> 1 / 0\ng()\n")},
	}
	var out bytes.Buffer
	std := NewStdlib(WithStdout(&out), WithLoader(FSLoader{FS: scripts}))

	val, err := std.Run("<main>", `run("lib.pls")`)
	if err != nil {
		t.Fatalf("run(lib.pls): %v", Report(err))
	}
	if val.Repr() != "0" || out.String() != "lib loaded\n" {
		t.Fatalf("run returned %s and printed %q", val.Repr(), out.String())
	}

	if _, err := std.Run("<main>", "run(\"lib.pls\")\nshared"); err == nil {
		t.Fatalf("bindings of a nested run must not leak into the caller")
	}

	_, err = std.Run("<main>", `run("broken.pls")`)
	report := Report(err)
	for _, want := range []string{
		"in <program>",
		"Runtime Error: Failed to finish executing script \"broken.pls\"",
		"File broken.pls, line 1, in g",
		"Runtime Error: Division by zero",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("nested report missing %q:\n%s", want, report)
		}
	}

	_, err = std.Run("<main>", `run("missing.pls")`)
	if report := Report(err); !strings.Contains(report, "Failed to load script \"missing.pls\"\nread script missing.pls") {
		t.Fatalf("unexpected load failure report:\n%s", report)
	}

	_, err = std.Run("<main>", `run(1)`)
	if report := Report(err); !strings.Contains(report, "Argument must be string") {
		t.Fatalf("unexpected type error report:\n%s", report)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.pls")
	if err := os.WriteFile(path, []byte("#!/usr/bin/env pulse\nVAR x = 6\nx * 7\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	val, err := NewStdlib().RunFile(path)
	if err != nil {
		t.Fatalf("RunFile: %v", Report(err))
	}
	if got := val.Repr(); got != "[6, 42]" {
		t.Fatalf("RunFile = %s, want [6, 42]", got)
	}

	if _, err := NewStdlib().RunFile(filepath.Join(dir, "absent.pls")); err == nil || !strings.Contains(err.Error(), "read script") {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestFileLoaderDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "part.pls"), []byte("1"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	text, err := FileLoader{Dir: dir}.Load("part.pls")
	if err != nil || text != "1" {
		t.Fatalf("Load = (%q, %v)", text, err)
	}
}

func TestDebugLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	std := NewStdlib(WithLogger(logger))
	if _, err := std.Run("logged.pls", "1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"run started", "run finished", "file=logged.pls"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, logs.String())
		}
	}
}

func TestIndependentRunsConcurrently(t *testing.T) {
	src := `
FUN sum(n)
	VAR total = 0
	FOR i = 1 TO n + 1 THEN
		VAR total = total + i
	END
	RETURN total
END
sum(%d)
`
	var g errgroup.Group
	results := make([]string, 8)
	for i := range results {
		i := i
		g.Go(func() error {
			val, err := NewStdlib().Run(fmt.Sprintf("worker%d.pls", i), fmt.Sprintf(src, 100*(i+1)))
			if err != nil {
				return err
			}
			elems := val.List().Elements
			results[i] = elems[len(elems)-1].Repr()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent run failed: %v", err)
	}
	for i, got := range results {
		n := 100 * (i + 1)
		if want := fmt.Sprint(n * (n + 1) / 2); got != want {
			t.Errorf("worker %d: sum = %s, want %s", i, got, want)
		}
	}
}
