package parser

import "fmt"

// TokenType enumerates lexical categories recognised by the Pulse lexer.
type TokenType int

const (
	TokenEOF TokenType = iota

	TokenInt
	TokenFloat
	TokenString
	TokenIdentifier
	TokenKeyword

	// Operators and punctuation
	TokenPlus    // +
	TokenMinus   // -
	TokenMul     // *
	TokenDiv     // /
	TokenPow     // ^
	TokenLParen  // (
	TokenRParen  // )
	TokenLSquare // [
	TokenRSquare // ]
	TokenEq      // =
	TokenEE      // ==
	TokenNE      // !=
	TokenLT      // <
	TokenGT      // >
	TokenLTE     // <=
	TokenGTE     // >=
	TokenComma   // ,
	TokenArrow   // ->
	TokenNewline // newline or ;
)

func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenKeyword:
		return "KEYWORD"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenMul:
		return "MUL"
	case TokenDiv:
		return "DIV"
	case TokenPow:
		return "POW"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenLSquare:
		return "LSQUARE"
	case TokenRSquare:
		return "RSQUARE"
	case TokenEq:
		return "EQ"
	case TokenEE:
		return "EE"
	case TokenNE:
		return "NE"
	case TokenLT:
		return "LT"
	case TokenGT:
		return "GT"
	case TokenLTE:
		return "LTE"
	case TokenGTE:
		return "GTE"
	case TokenComma:
		return "COMMA"
	case TokenArrow:
		return "ARROW"
	case TokenNewline:
		return "NEWLINE"
	default:
		return "unknown"
	}
}

// Keywords lists the reserved words of the language.
var Keywords = []string{
	"VAR", "OR", "AND", "NOT", "IF", "THEN", "ELIF", "ELSE", "FOR", "TO",
	"STEP", "FUN", "WHILE", "RETURN", "CONTINUE", "BREAK", "END",
}

func isKeyword(word string) bool {
	for _, kw := range Keywords {
		if kw == word {
			return true
		}
	}
	return false
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Type  TokenType
	Value interface{} // int64, float64 or string; nil for punctuation
	Start Position
	End   Position // exclusive
}

// Matches reports whether the token has the given type and value.
func (t Token) Matches(tt TokenType, value string) bool {
	if t.Type != tt {
		return false
	}
	s, ok := t.Value.(string)
	return ok && s == value
}

// Text returns the string payload of identifier, keyword and string tokens.
func (t Token) Text() string {
	s, _ := t.Value.(string)
	return s
}

func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s:%v", t.Type, t.Value)
	}
	return t.Type.String()
}
