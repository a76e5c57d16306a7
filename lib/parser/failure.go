package parser

import (
	"fmt"

	"github.com/vyPal/MiniPascal/lib/token"
)

type FailureKind int

const (
	SyntaxError FailureKind = iota
	SemanticError
)

func (k FailureKind) String() string {
	if k == SemanticError {
		return "semantic error"
	}
	return "syntax error"
}

// Failure describes the first violation found in a token sequence. Parsing
// stops there; there is never more than one.
type Failure struct {
	Kind FailureKind
	// Position is the index of the offending token in the sequence.
	Position int
	Token    token.Token
	Expected string
	Actual   string
	// Err is the *symtab.Error behind a semantic failure.
	Err error
}

func (f *Failure) Error() string {
	if f.Kind == SemanticError {
		return fmt.Sprintf("%s at token %d: %s", f.Kind, f.Position, f.Err)
	}
	return fmt.Sprintf("%s at token %d: expected %s but got %s", f.Kind, f.Position, f.Expected, f.Actual)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func describe(tok token.Token) string {
	desc := fmt.Sprintf("%s with value '%s'", tok.Name, tok.Lexeme)
	switch {
	case tok.Kind == token.Error && tok.Message != "":
		desc += " (" + tok.Message + ")"
	case tok.Kind.IsReserved():
		desc += " (reserved word)"
	}
	return desc
}
