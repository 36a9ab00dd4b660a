package parser

import (
	"io"

	"github.com/pkg/errors"
)

// ParseString tokenizes and parses Pulse source text. The filename is used
// in diagnostics only.
func ParseString(filename, src string) (Node, error) {
	tokens, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseReader consumes Pulse source from an io.Reader and parses it.
func ParseReader(filename string, r io.Reader) (Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	return ParseString(filename, string(data))
}
