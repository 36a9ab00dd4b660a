package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"
	pkgerrors "github.com/pkg/errors"

	"github.com/sergev/pulse/lang"
	"github.com/sergev/pulse/parser"
	"github.com/sergev/pulse/reader"
	"github.com/sergev/pulse/runtime"
)

type config struct {
	logLevel   string
	history    string
	eval       string
	dumpTokens bool
	dumpAST    bool
	script     string
	args       []string
}

func newApp(cfg *config) *kingpin.Application {
	app := kingpin.New("pulse", "Interpreter for the Pulse programming language.")
	app.Flag("log-level", "Log level (debug, info, warn, error).").
		Envar("PULSE_LOG_LEVEL").Default("warn").
		EnumVar(&cfg.logLevel, "debug", "info", "warn", "error")
	app.Flag("history", "REPL history file.").
		Envar("PULSE_HISTORY").Default(defaultHistoryPath()).StringVar(&cfg.history)
	app.Flag("eval", "Evaluate code and print the result.").Short('e').StringVar(&cfg.eval)
	app.Flag("dump-tokens", "Print the token stream before evaluation.").BoolVar(&cfg.dumpTokens)
	app.Flag("dump-ast", "Print the syntax tree before evaluation.").BoolVar(&cfg.dumpAST)
	app.Arg("script", "Script to run; '-' reads standard input.").StringVar(&cfg.script)
	app.Arg("args", "Arguments exposed to the script as ARGV.").StringsVar(&cfg.args)
	return app
}

func main() {
	var cfg config
	kingpin.MustParse(newApp(&cfg).Parse(os.Args[1:]))

	logger := newLogger(os.Stderr, cfg.logLevel)
	os.Exit(run(&cfg, logger))
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func run(cfg *config, logger *slog.Logger) int {
	switch {
	case cfg.eval != "":
		std := runtime.NewStdlib(runtime.WithLogger(logger), runtime.WithArgs(cfg.args))
		return runSource(std, cfg, "<eval>", cfg.eval, true)
	case cfg.script == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pulse: %v\n", pkgerrors.Wrap(err, "read standard input"))
			return 1
		}
		std := runtime.NewStdlib(runtime.WithLogger(logger), runtime.WithArgs(cfg.args))
		return runSource(std, cfg, "<stdin>", string(data), false)
	case cfg.script != "":
		text, err := runtime.FileLoader{}.Load(cfg.script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
			return 1
		}
		std := runtime.NewStdlib(runtime.WithLogger(logger), runtime.WithArgs(append([]string{cfg.script}, cfg.args...)))
		return runSource(std, cfg, cfg.script, text, false)
	}

	if !reader.IsTerminal(os.Stdin) {
		lines := reader.NewBuffered(os.Stdin, nil)
		std := runtime.NewStdlib(runtime.WithLogger(logger), runtime.WithInput(lines))
		if err := repl(std, cfg, lines, os.Stdout, os.Stderr, nil); err != nil {
			fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
			return 1
		}
		return 0
	}
	if err := runInteractiveREPL(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
		return 1
	}
	return 0
}

// runSource runs one complete program and reports failures on stderr.
func runSource(std *runtime.Stdlib, cfg *config, filename, src string, printResult bool) int {
	node, err := parseWithDumps(cfg, os.Stderr, filename, src)
	if err == nil {
		var val lang.Value
		val, err = std.Eval(std.NewGlobal(), node)
		if err == nil {
			if printResult {
				printValue(os.Stdout, val)
			}
			return 0
		}
	}
	fmt.Fprintln(os.Stderr, runtime.Report(err))
	return 1
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// parseWithDumps parses src, writing the tokens and tree to w when asked.
func parseWithDumps(cfg *config, w io.Writer, filename, src string) (parser.Node, error) {
	tokens, err := parser.Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	if cfg.dumpTokens {
		dumper.Fdump(w, tokens)
	}
	node, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if cfg.dumpAST {
		dumper.Fdump(w, node)
	}
	return node, nil
}

func printValue(w io.Writer, val lang.Value) {
	if val.IsNone() {
		return
	}
	fmt.Fprintln(w, val.Repr())
}

// repl reads statements line by line, buffering until the input parses,
// and evaluates each entry in one persistent global environment.
func repl(std *runtime.Stdlib, cfg *config, lines reader.LineReader, out, errOut io.Writer, record func(string)) error {
	global := std.NewGlobal()
	var buffer strings.Builder

	for {
		prompt := "pulse> "
		if buffer.Len() > 0 {
			prompt = "...... "
		}
		line, err := lines.ReadLine(prompt)
		if err != nil {
			switch {
			case errors.Is(err, reader.ErrAborted):
				fmt.Fprintln(out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				if buffer.Len() > 0 {
					if _, perr := parser.ParseString("<stdin>", buffer.String()); perr != nil {
						fmt.Fprintln(errOut, runtime.Report(perr))
					}
				}
				return nil
			default:
				return pkgerrors.Wrap(err, "read input")
			}
		}
		buffer.WriteString(line)
		buffer.WriteString("\n")

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}
		node, err := parseWithDumps(cfg, errOut, "<stdin>", src)
		if parser.IsIncomplete(err) {
			continue
		}
		buffer.Reset()
		if record != nil {
			record(src)
		}
		if err != nil {
			fmt.Fprintln(errOut, runtime.Report(err))
			continue
		}
		val, err := std.Eval(global, node)
		if err != nil {
			fmt.Fprintln(errOut, runtime.Report(err))
			continue
		}
		printValue(out, val)
	}
}

func runInteractiveREPL(cfg *config, logger *slog.Logger) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if cfg.history != "" {
		if err := loadHistory(state, cfg.history); err != nil {
			logger.Debug("history not loaded", "error", err)
		}
		defer func() {
			if err := saveHistory(state, cfg.history); err != nil {
				logger.Warn("history not saved", "error", err)
			}
		}()
	}

	lines := reader.NewLiner(state)
	std := runtime.NewStdlib(runtime.WithLogger(logger), runtime.WithInput(lines))
	err := repl(std, cfg, lines, os.Stdout, os.Stderr, lines.AppendHistory)
	fmt.Println()
	return err
}

func loadHistory(state *liner.State, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "open history %s", path)
	}
	defer f.Close()
	if _, err := state.ReadHistory(f); err != nil {
		return pkgerrors.Wrapf(err, "read history %s", path)
	}
	return nil
}

func saveHistory(state *liner.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "create history %s", path)
	}
	defer f.Close()
	if _, err := state.WriteHistory(f); err != nil {
		return pkgerrors.Wrapf(err, "write history %s", path)
	}
	return nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".pulse_history")
}
