package parser

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	src string
	pos Position
	err *Error // set on invalid UTF-8; stops lexing
}

func newLexer(filename, src string) *lexer {
	return &lexer{
		src: src,
		pos: StartOf(filename, src),
	}
}

// Tokenize splits source text into tokens terminated by an EOF token.
// On failure no tokens are returned.
func Tokenize(filename, src string) ([]Token, error) {
	lx := newLexer(filename, src)
	var tokens []Token
	for {
		tok, err := lx.nextToken()
		if err != nil {
			return nil, err
		}
		if lx.err != nil {
			return nil, lx.err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) mark() Position {
	return lx.pos
}

func (lx *lexer) restore(state Position) {
	lx.pos = state
}

func (lx *lexer) readRune() (rune, error) {
	if lx.pos.Offset >= len(lx.src) {
		return 0, io.EOF
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos.Offset:])
	if r == utf8.RuneError && w == 1 {
		if lx.err == nil {
			lx.err = newError(IllegalCharacter, lx.pos, lx.pos, "invalid UTF-8 byte 0x%02x", lx.src[lx.pos.Offset])
		}
		return 0, lx.err
	}
	lx.pos = lx.pos.Advance(r)
	return r, nil
}

func (lx *lexer) peekRune() (rune, bool) {
	state := lx.mark()
	r, err := lx.readRune()
	lx.restore(state)
	return r, err == nil
}

func (lx *lexer) match(expected rune) bool {
	state := lx.mark()
	r, err := lx.readRune()
	if err != nil {
		return false
	}
	if r != expected {
		lx.restore(state)
		return false
	}
	return true
}

func (lx *lexer) skipWhitespace() {
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			return
		}
		switch r {
		case ' ', '\t', '\r':
			continue
		case '#':
			lx.skipComment()
			continue
		}
		lx.restore(state)
		return
	}
}

// skipComment consumes up to, but not including, the next newline.
func (lx *lexer) skipComment() {
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			return
		}
		if r == '\n' {
			lx.restore(state)
			return
		}
	}
}

func (lx *lexer) nextToken() (Token, error) {
	lx.skipWhitespace()

	start := lx.mark()
	r, err := lx.readRune()
	if err == io.EOF {
		return Token{Type: TokenEOF, Start: start, End: start}, nil
	}
	if err != nil {
		return Token{}, err
	}

	switch {
	case r == ';' || r == '\n':
		return lx.simpleToken(TokenNewline, start), nil
	case isDigit(r):
		return lx.scanNumber(r, start), nil
	case isIdentifierStart(r):
		return lx.scanIdentifier(r, start), nil
	case r == '"':
		return lx.scanString(start), nil
	}

	switch r {
	case '+':
		return lx.simpleToken(TokenPlus, start), nil
	case '-':
		if lx.match('>') {
			return lx.simpleToken(TokenArrow, start), nil
		}
		return lx.simpleToken(TokenMinus, start), nil
	case '*':
		return lx.simpleToken(TokenMul, start), nil
	case '/':
		return lx.simpleToken(TokenDiv, start), nil
	case '^':
		return lx.simpleToken(TokenPow, start), nil
	case '(':
		return lx.simpleToken(TokenLParen, start), nil
	case ')':
		return lx.simpleToken(TokenRParen, start), nil
	case '[':
		return lx.simpleToken(TokenLSquare, start), nil
	case ']':
		return lx.simpleToken(TokenRSquare, start), nil
	case ',':
		return lx.simpleToken(TokenComma, start), nil
	case '=':
		if lx.match('=') {
			return lx.simpleToken(TokenEE, start), nil
		}
		return lx.simpleToken(TokenEq, start), nil
	case '<':
		if lx.match('=') {
			return lx.simpleToken(TokenLTE, start), nil
		}
		return lx.simpleToken(TokenLT, start), nil
	case '>':
		if lx.match('=') {
			return lx.simpleToken(TokenGTE, start), nil
		}
		return lx.simpleToken(TokenGT, start), nil
	case '!':
		if lx.match('=') {
			return lx.simpleToken(TokenNE, start), nil
		}
		return Token{}, newError(ExpectedCharacter, start, lx.mark(), "'=' (after '!')")
	default:
		return Token{}, newError(IllegalCharacter, start, start, "'%c'", r)
	}
}

func (lx *lexer) simpleToken(tt TokenType, start Position) Token {
	return Token{
		Type:  tt,
		Start: start,
		End:   lx.mark(),
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (lx *lexer) scanIdentifier(initial rune, start Position) Token {
	var builder strings.Builder
	builder.WriteRune(initial)
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			break
		}
		if !isIdentifierPart(r) {
			lx.restore(state)
			break
		}
		builder.WriteRune(r)
	}
	word := builder.String()
	tt := TokenIdentifier
	if isKeyword(word) {
		tt = TokenKeyword
	}
	return Token{
		Type:  tt,
		Value: word,
		Start: start,
		End:   lx.mark(),
	}
}

// scanNumber accepts digits with at most one '.'; a second '.' ends the
// literal and is left for the next token.
func (lx *lexer) scanNumber(initial rune, start Position) Token {
	var builder strings.Builder
	builder.WriteRune(initial)
	seenDot := false
	for {
		state := lx.mark()
		r, err := lx.readRune()
		if err != nil {
			break
		}
		if isDigit(r) {
			builder.WriteRune(r)
			continue
		}
		if r == '.' && !seenDot {
			seenDot = true
			builder.WriteRune(r)
			continue
		}
		lx.restore(state)
		break
	}

	lexeme := builder.String()
	tok := Token{Start: start, End: lx.mark()}
	if !seenDot {
		if i, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			tok.Type = TokenInt
			tok.Value = i
			return tok
		}
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		f = math.Inf(1)
	}
	tok.Type = TokenFloat
	tok.Value = f
	return tok
}

// scanString reads up to the closing quote. An unterminated string runs to
// the end of input.
func (lx *lexer) scanString(start Position) Token {
	var builder strings.Builder
	escaped := false
	for {
		r, err := lx.readRune()
		if err != nil {
			break
		}
		if escaped {
			switch r {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			default:
				builder.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			break
		}
		builder.WriteRune(r)
	}
	return Token{
		Type:  TokenString,
		Value: builder.String(),
		Start: start,
		End:   lx.mark(),
	}
}
