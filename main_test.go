package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sergev/pulse/reader"
	"github.com/sergev/pulse/runtime"
)

func TestREPLPersistsBindingsAndBuffersBlocks(t *testing.T) {
	src := strings.Join([]string{
		"VAR x = 2",
		"FUN sq(n)",
		"  RETURN n * n",
		"END",
		"",
		"sq(x)",
		"1 / 0",
		"x",
	}, "\n") + "\n"
	lines := reader.NewBuffered(strings.NewReader(src), nil)
	std := runtime.NewStdlib(runtime.WithInput(lines))

	var out, errOut bytes.Buffer
	var entries []string
	if err := repl(std, &config{}, lines, &out, &errOut, func(entry string) {
		entries = append(entries, entry)
	}); err != nil {
		t.Fatalf("repl returned error: %v", err)
	}

	if got, want := out.String(), "2\n<function sq>\n4\n2\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	if !strings.Contains(errOut.String(), "Runtime Error: Division by zero") {
		t.Fatalf("expected division error on stderr, got %q", errOut.String())
	}
	if len(entries) != 5 || entries[1] != "FUN sq(n)\n  RETURN n * n\nEND\n" {
		t.Fatalf("unexpected history entries %q", entries)
	}
}

func TestREPLReportsIncompleteInputAtEOF(t *testing.T) {
	lines := reader.NewBuffered(strings.NewReader("IF 1 THEN\n"), nil)
	std := runtime.NewStdlib(runtime.WithInput(lines))

	var out, errOut bytes.Buffer
	if err := repl(std, &config{}, lines, &out, &errOut, nil); err != nil {
		t.Fatalf("repl returned error: %v", err)
	}
	if !strings.Contains(errOut.String(), "Expected 'END'") {
		t.Fatalf("expected unfinished block to be reported, got %q", errOut.String())
	}
}

func TestREPLInputSharesLineSource(t *testing.T) {
	lines := reader.NewBuffered(strings.NewReader("input() + \"!\"\nhello\n"), nil)
	std := runtime.NewStdlib(runtime.WithInput(lines))

	var out, errOut bytes.Buffer
	if err := repl(std, &config{}, lines, &out, &errOut, nil); err != nil {
		t.Fatalf("repl returned error: %v", err)
	}
	if got := out.String(); got != "\"hello!\"\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestParseWithDumps(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config{dumpTokens: true, dumpAST: true}
	if _, err := parseWithDumps(cfg, &buf, "<test>", "1"); err != nil {
		t.Fatalf("parseWithDumps: %v", err)
	}
	for _, want := range []string{"INT:1", "NumberLiteral", "ListLiteral"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, buf.String())
		}
	}
}

func TestNewAppFlags(t *testing.T) {
	t.Setenv("PULSE_HISTORY", "/tmp/pulse-history")

	var cfg config
	_, err := newApp(&cfg).Parse([]string{"--log-level=debug", "-e", "1 + 1", "--dump-ast", "main.pls", "a", "b"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.logLevel != "debug" || cfg.eval != "1 + 1" || !cfg.dumpAST || cfg.dumpTokens {
		t.Fatalf("unexpected flags %+v", cfg)
	}
	if cfg.script != "main.pls" || strings.Join(cfg.args, ",") != "a,b" {
		t.Fatalf("unexpected arguments %+v", cfg)
	}
	if cfg.history != "/tmp/pulse-history" {
		t.Fatalf("history = %q, want value from PULSE_HISTORY", cfg.history)
	}

	if _, err := newApp(&config{}).Parse([]string{"--log-level=loud"}); err == nil {
		t.Fatalf("expected invalid log level to be rejected")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug logger should enable debug level")
	}
	if newLogger(&buf, "warn").Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("warn logger should not enable info level")
	}
}
