package mplex

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/MiniPascal/lib/token"
)

// Definition exposes the Tokenizer as a participle lexer.
var Definition lexer.Definition = &tokenizerDefinition{}

type tokenizerDefinition struct{}

func (d *tokenizerDefinition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	return &tokenizerLexer{tokenizer: New(filename, r)}, nil
}

func (d *tokenizerDefinition) Symbols() map[string]lexer.TokenType {
	symbols := map[string]lexer.TokenType{
		"EOF": lexer.EOF,
	}
	for _, kind := range token.Kinds() {
		if kind == token.EOF {
			continue
		}
		symbols[kind.String()] = TokenType(kind)
	}
	return symbols
}

// tokenizerLexer is a participle Lexer backed by a Tokenizer. Lexical
// errors stay in the stream as ERROR_TOKEN values rather than being
// returned, so Next never fails.
type tokenizerLexer struct {
	tokenizer *Tokenizer
}

func (l *tokenizerLexer) Next() (lexer.Token, error) {
	tok := l.tokenizer.Next()
	return lexer.Token{
		Type:  TokenType(tok.Kind),
		Value: tok.Lexeme,
		Pos:   tok.Pos,
	}, nil
}

// LexString returns a participle lexer over a string.
func LexString(filename, s string) lexer.Lexer {
	l, _ := Definition.Lex(filename, strings.NewReader(s))
	return l
}

// TokenType maps a kind onto participle's token types; EOF_TOKEN becomes
// lexer.EOF.
func TokenType(kind token.Kind) lexer.TokenType {
	if kind == token.EOF {
		return lexer.EOF
	}
	return lexer.TokenType(kind)
}

func KindOf(tt lexer.TokenType) token.Kind {
	if tt == lexer.EOF {
		return token.EOF
	}
	return token.Kind(tt)
}

// FromParticiple converts a participle token back into a token.Token.
// The message of an ERROR_TOKEN does not survive the round trip.
func FromParticiple(tok lexer.Token) token.Token {
	return token.New(KindOf(tok.Type), tok.Value, tok.Pos)
}
