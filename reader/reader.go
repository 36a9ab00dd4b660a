// Package reader supplies line-oriented input for the REPL and for the
// input built-ins.
package reader

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl-C.
var ErrAborted = liner.ErrPromptAborted

// LineReader yields one line of input per call, without the line
// terminator. It returns io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Buffered reads lines from any io.Reader. Prompts are written to out when
// it is non-nil.
type Buffered struct {
	br  *bufio.Reader
	out io.Writer
}

// NewBuffered wraps r. out may be nil to suppress prompts.
func NewBuffered(r io.Reader, out io.Writer) *Buffered {
	return &Buffered{br: bufio.NewReader(r), out: out}
}

// ReadLine implements LineReader.
func (b *Buffered) ReadLine(prompt string) (string, error) {
	if b.out != nil && prompt != "" {
		if _, err := io.WriteString(b.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := b.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLine(line), nil
		}
		return "", err
	}
	return trimLine(line), nil
}

func trimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// Liner reads lines through a terminal line editor.
type Liner struct {
	state *liner.State
}

// NewLiner wraps an open liner session. The caller owns state and must
// close it.
func NewLiner(state *liner.State) *Liner {
	return &Liner{state: state}
}

// ReadLine implements LineReader. Ctrl-C yields ErrAborted.
func (l *Liner) ReadLine(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

// AppendHistory records a completed entry in the session history.
func (l *Liner) AppendHistory(entry string) {
	if entry = strings.TrimSpace(entry); entry != "" {
		l.state.AppendHistory(entry)
	}
}

// IsTerminal reports whether f is attached to a character device.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
