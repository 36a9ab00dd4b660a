// Package runtime wires the parser and interpreter together with the
// standard library of built-in functions.
package runtime

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/sergev/pulse/lang"
	"github.com/sergev/pulse/parser"
	"github.com/sergev/pulse/reader"
)

// Stdlib holds the host collaborators the built-ins use. It is immutable
// after construction; every run gets its own global environment built from
// it.
type Stdlib struct {
	stdout io.Writer
	input  reader.LineReader
	logger *slog.Logger
	loader Loader
	clear  func(io.Writer) error
	argv   []string
}

// Option configures a Stdlib.
type Option func(*Stdlib)

// WithStdout directs print and prompts to w.
func WithStdout(w io.Writer) Option {
	return func(s *Stdlib) { s.stdout = w }
}

// WithInput sets the line source for input and input_int.
func WithInput(r reader.LineReader) Option {
	return func(s *Stdlib) { s.input = r }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stdlib) { s.logger = l }
}

// WithLoader sets how the run built-in locates scripts.
func WithLoader(l Loader) Option {
	return func(s *Stdlib) { s.loader = l }
}

// WithClear replaces the terminal clearing routine.
func WithClear(fn func(io.Writer) error) Option {
	return func(s *Stdlib) { s.clear = fn }
}

// WithArgs exposes command-line arguments to programs as the list ARGV.
func WithArgs(args []string) Option {
	return func(s *Stdlib) { s.argv = args }
}

// NewStdlib constructs a standard library bound to the process stdio unless
// overridden by options.
func NewStdlib(opts ...Option) *Stdlib {
	s := &Stdlib{
		stdout: os.Stdout,
		input:  reader.NewBuffered(os.Stdin, nil),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		loader: FileLoader{},
		clear:  clearScreen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewGlobal returns a fresh root environment holding the constants and
// built-in functions.
func (s *Stdlib) NewGlobal() *lang.Env {
	env := lang.NewEnv(nil)
	installLibrary(env)
	s.installPrimitives(env)
	setArgv(env, s.argv)
	return env
}

// Run evaluates text in a fresh global environment.
func (s *Stdlib) Run(filename, text string) (lang.Value, error) {
	return s.RunIn(s.NewGlobal(), filename, text)
}

// RunIn evaluates text in an existing global environment, so bindings
// persist across calls.
func (s *Stdlib) RunIn(global *lang.Env, filename, text string) (lang.Value, error) {
	s.logger.Debug("run started", "file", filename, "bytes", len(text))
	node, err := parser.ParseString(filename, text)
	if err != nil {
		s.logger.Debug("parse failed", "file", filename, "error", err)
		return lang.None, err
	}
	return s.Eval(global, node)
}

// Eval evaluates an already parsed program in global.
func (s *Stdlib) Eval(global *lang.Env, node parser.Node) (lang.Value, error) {
	file := node.Start().Filename
	val, err := lang.NewInterpreter(global).Run(node)
	if err != nil {
		s.logger.Debug("run failed", "file", file, "error", err)
		return lang.None, err
	}
	s.logger.Debug("run finished", "file", file, "type", val.Type)
	return val, nil
}

// RunFile loads path through the configured loader and runs it.
func (s *Stdlib) RunFile(path string) (lang.Value, error) {
	text, err := s.loader.Load(path)
	if err != nil {
		return lang.None, err
	}
	return s.Run(path, text)
}

// Report renders err the way it is shown to users: syntax errors with their
// location, runtime errors with a traceback.
func Report(err error) string {
	var rterr *lang.RuntimeError
	if errors.As(err, &rterr) {
		return rterr.Report()
	}
	var perr *parser.Error
	if errors.As(err, &perr) {
		return perr.Report()
	}
	return err.Error()
}
