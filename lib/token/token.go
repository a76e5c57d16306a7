package token

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

type Kind int

const (
	Program Kind = iota
	Const
	Var
	Begin
	End
	If
	Then
	While
	Do
	Read
	Write

	// Reserved words; tokenized but never accepted by the grammar.
	Else
	Array
	Record
	For
	Case
	Repeat

	Semicolon    // ;
	Period       // .
	Plus         // +
	Minus        // -
	Mult         // *
	Div          // /
	Comma        // ,
	Assign       // :=
	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=
	NotEqual     // <>
	Equal        // =
	LParen       // (
	RParen       // )

	Number
	RealNumber
	Identifier
	Error
	EOF

	kindCount
)

// EOFLexeme is the lexeme carried by every end-of-input token.
const EOFLexeme = "EOF"

var names = [...]string{
	Program:      "PROGRAM_TOKEN",
	Const:        "CONST_TOKEN",
	Var:          "VAR_TOKEN",
	Begin:        "BEGIN_TOKEN",
	End:          "END_TOKEN",
	If:           "IF_TOKEN",
	Then:         "THEN_TOKEN",
	While:        "WHILE_TOKEN",
	Do:           "DO_TOKEN",
	Read:         "READ_TOKEN",
	Write:        "WRITE_TOKEN",
	Else:         "ELSE_TOKEN",
	Array:        "ARRAY_TOKEN",
	Record:       "RECORD_TOKEN",
	For:          "FOR_TOKEN",
	Case:         "CASE_TOKEN",
	Repeat:       "REPEAT_TOKEN",
	Semicolon:    "PV_TOKEN",
	Period:       "PT_TOKEN",
	Plus:         "PLUS_TOKEN",
	Minus:        "MOINS_TOKEN",
	Mult:         "MULT_TOKEN",
	Div:          "DIV_TOKEN",
	Comma:        "VIR_TOKEN",
	Assign:       "AFF_TOKEN",
	Less:         "INF_TOKEN",
	LessEqual:    "INFEG_TOKEN",
	Greater:      "SUP_TOKEN",
	GreaterEqual: "SUPEG_TOKEN",
	NotEqual:     "DIFF_TOKEN",
	Equal:        "EQ_TOKEN",
	LParen:       "PO_TOKEN",
	RParen:       "PF_TOKEN",
	Number:       "NUMBER_TOKEN",
	RealNumber:   "REAL_NUMBER_TOKEN",
	Identifier:   "IDENTIFIER_TOKEN",
	Error:        "ERROR_TOKEN",
	EOF:          "EOF_TOKEN",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var keywords = map[string]Kind{
	"program": Program,
	"const":   Const,
	"var":     Var,
	"begin":   Begin,
	"end":     End,
	"if":      If,
	"then":    Then,
	"while":   While,
	"do":      Do,
	"read":    Read,
	"write":   Write,
	"else":    Else,
	"array":   Array,
	"record":  Record,
	"for":     For,
	"case":    Case,
	"repeat":  Repeat,
}

var symbols = map[string]Kind{
	";":  Semicolon,
	".":  Period,
	"+":  Plus,
	"-":  Minus,
	"*":  Mult,
	"/":  Div,
	",":  Comma,
	":=": Assign,
	"<":  Less,
	"<=": LessEqual,
	">":  Greater,
	">=": GreaterEqual,
	"<>": NotEqual,
	"=":  Equal,
	"(":  LParen,
	")":  RParen,
}

// LookupIdent classifies a word as a keyword or an identifier. Matching is
// case-sensitive.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// LookupSymbol returns the kind of a one- or two-character operator.
func LookupSymbol(sym string) (Kind, bool) {
	kind, ok := symbols[sym]
	return kind, ok
}

func (k Kind) IsKeyword() bool {
	return k >= Program && k <= Repeat
}

// IsReserved reports whether k is a keyword the grammar does not consume.
func (k Kind) IsReserved() bool {
	return k >= Else && k <= Repeat
}

func (k Kind) IsRelational() bool {
	switch k {
	case Less, LessEqual, Greater, GreaterEqual, NotEqual, Equal, Assign:
		return true
	}
	return false
}

type Token struct {
	Kind    Kind
	Name    string
	Lexeme  string
	Message string
	Pos     lexer.Position
}

func New(kind Kind, lexeme string, pos lexer.Position) Token {
	return Token{Kind: kind, Name: kind.String(), Lexeme: lexeme, Pos: pos}
}

// NewError builds an ERROR_TOKEN; msg says why the lexeme was rejected.
func NewError(lexeme, msg string, pos lexer.Position) Token {
	tok := New(Error, lexeme, pos)
	tok.Message = msg
	return tok
}

func NewEOF(pos lexer.Position) Token {
	return New(EOF, EOFLexeme, pos)
}

func (t Token) String() string {
	if t.Kind == Error && t.Message != "" {
		return fmt.Sprintf("%s(%q: %s)", t.Name, t.Lexeme, t.Message)
	}
	return fmt.Sprintf("%s(%q)", t.Name, t.Lexeme)
}
