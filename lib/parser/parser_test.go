package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/MiniPascal/lib/symtab"
	"github.com/vyPal/MiniPascal/lib/token"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sumProgram = `program sum;
{ Sum the numbers from 1 to n. }
const n = 10;
var i, total;
begin
  i := 1;
  total := 0;
  while i <= n do
  begin
    total := total + i;
    i := i + 1;
  end;
  write(total);
end.`

func requireFailure(t *testing.T, err error) *Failure {
	t.Helper()
	require.Error(t, err)
	var failure *Failure
	require.True(t, errors.As(err, &failure), "not a *Failure: %v", err)
	return failure
}

func TestParseSumProgram(t *testing.T) {
	prog, err := ParseString(sumProgram)
	require.NoError(t, err)

	assert.Equal(t, "sum", prog.Name)
	assert.Equal(t, 1, prog.Constants)
	assert.Equal(t, 2, prog.Variables)
	assert.Equal(t, 7, prog.Instructions)
	assert.Equal(t, []string{"i", "n", "total"}, prog.Symbols.Names())
	_, ok := prog.Symbols.Lookup("sum")
	assert.False(t, ok)
}

func TestParseValid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty body", "program p; begin end."},
		{"assign const to var", "program p; const a = 1; var x; begin x := a; end."},
		{"const with assign symbol", "program p; const k := 5; begin end."},
		{"several const lines", "program p; const a = 1; b = 2; begin end."},
		{"several var lines", "program p; var x, y; z; begin z := x * y; end."},
		{"read and write", "program p; var x, y; begin read(x, y); write(x + y, 2 * (x - y) / 3); end."},
		{"if with nested block", "program p; var x; begin if x < 1 then begin x := 1; end; end."},
		{"while", "program p; var x; begin while x <> 0 do x := x - 1; end."},
		{"every relational operator", "program p; var x; begin if x < 1 then x := 1; if x <= 1 then x := 1; if x > 1 then x := 1; if x >= 1 then x := 1; if x = 1 then x := 1; if x <> 1 then x := 1; end."},
		{"assign symbol in condition", "program p; var x; begin if x := 1 then x := 2; end."},
		{"nested blocks", "program p; begin begin begin end; end; end."},
		{"comments everywhere", "{a} program (*b*) p; {c} begin (*d*) end {e}."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			assert.NoError(t, err)
		})
	}
}

func TestEmptyBody(t *testing.T) {
	prog, err := ParseString("program p; begin end.")
	require.NoError(t, err)
	assert.Equal(t, "p", prog.Name)
	assert.Equal(t, 0, prog.Instructions)
	assert.Equal(t, 0, prog.Symbols.Len())
}

func TestSyntaxFailures(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     []Option
		position int
		expected string
		actual   string
	}{
		{
			name:     "last instruction without semicolon",
			src:      "program p; begin x := 1 end.",
			opts:     []Option{SyntaxOnly()},
			position: 7,
			expected: "PV_TOKEN",
			actual:   "END_TOKEN with value 'end'",
		},
		{
			name:     "declared but still missing semicolon",
			src:      "program p; var x; begin x := 1 end.",
			position: 10,
			expected: "PV_TOKEN",
		},
		{
			name:     "const keyword without entries",
			src:      "program p; const var x; begin end.",
			position: 4,
			expected: "IDENTIFIER_TOKEN",
		},
		{
			name:     "var keyword without entries",
			src:      "program p; var begin end.",
			position: 4,
			expected: "IDENTIFIER_TOKEN",
		},
		{
			name:     "const without value",
			src:      "program p; const a; begin end.",
			position: 5,
			expected: "EQ_TOKEN or AFF_TOKEN",
		},
		{
			name:     "missing relational operator",
			src:      "program p; var x; begin if x 1 then x := 1; end.",
			position: 9,
			expected: "relational operator",
		},
		{
			name:     "reserved word as instruction",
			src:      "program p; begin else end.",
			position: 4,
			expected: "instruction",
			actual:   "ELSE_TOKEN with value 'else' (reserved word)",
		},
		{
			name:     "malformed number in expression",
			src:      "program p; var y; begin y := 3y; end.",
			position: 9,
			expected: "factor",
		},
		{
			name:     "trailing token after period",
			src:      "program p; begin end. x",
			position: 6,
			expected: "EOF_TOKEN",
		},
		{
			name:     "missing period",
			src:      "program p; begin end",
			position: 5,
			expected: "PT_TOKEN",
			actual:   "EOF_TOKEN with value 'EOF'",
		},
		{
			name:     "missing program keyword",
			src:      "p; begin end.",
			position: 0,
			expected: "PROGRAM_TOKEN",
		},
		{
			name:     "missing then",
			src:      "program p; var x; begin if x < 1 x := 1; end.",
			position: 11,
			expected: "THEN_TOKEN",
		},
		{
			name:     "missing do",
			src:      "program p; var x; begin while x < 1 x := 1; end.",
			position: 11,
			expected: "DO_TOKEN",
		},
		{
			name:     "unclosed paren",
			src:      "program p; var x; begin x := (x + 1; end.",
			position: 13,
			expected: "PF_TOKEN",
		},
		{
			name:     "read of an expression",
			src:      "program p; var x; begin read(1); end.",
			position: 9,
			expected: "IDENTIFIER_TOKEN",
		},
		{
			name:     "unterminated comment",
			src:      "program p; { begin end.",
			position: 3,
			expected: "BEGIN_TOKEN",
			actual:   "ERROR_TOKEN with value '{' (unterminated comment, missing '}')",
		},
		{
			name:     "number too large",
			src:      "program p; const a = 99999999999999999999999; begin end.",
			position: 6,
			expected: "NUMBER_TOKEN within integer range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src, tt.opts...)
			failure := requireFailure(t, err)

			assert.Equal(t, SyntaxError, failure.Kind)
			assert.Equal(t, tt.position, failure.Position)
			assert.Equal(t, tt.expected, failure.Expected)
			if tt.actual != "" {
				assert.Equal(t, tt.actual, failure.Actual)
			}
			assert.NoError(t, failure.Err)
		})
	}
}

func TestSemanticFailures(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		position int
		rule     error
		symbol   string
	}{
		{
			name:     "const redeclared as var",
			src:      "program p; const a = 1; var a; begin end.",
			position: 9,
			rule:     symtab.ErrDuplicateDeclaration,
			symbol:   "a",
		},
		{
			name:     "var declared twice",
			src:      "program p; var x, x; begin end.",
			position: 6,
			rule:     symtab.ErrDuplicateDeclaration,
			symbol:   "x",
		},
		{
			name:     "assignment to undeclared",
			src:      "program p; var x; begin y := 1; end.",
			position: 7,
			rule:     symtab.ErrUndeclaredIdentifier,
			symbol:   "y",
		},
		{
			name:     "undeclared in expression",
			src:      "program p; var x; begin x := x + z; end.",
			position: 11,
			rule:     symtab.ErrUndeclaredIdentifier,
			symbol:   "z",
		},
		{
			name:     "undeclared in condition",
			src:      "program p; begin while w > 0 do write(1); end.",
			position: 5,
			rule:     symtab.ErrUndeclaredIdentifier,
			symbol:   "w",
		},
		{
			name:     "assignment to constant",
			src:      "program p; const a = 1; begin a := 2; end.",
			position: 9,
			rule:     symtab.ErrConstantModification,
			symbol:   "a",
		},
		{
			name:     "read into constant",
			src:      "program p; const k = 1; begin read(k); end.",
			position: 11,
			rule:     symtab.ErrConstantModification,
			symbol:   "k",
		},
		{
			name:     "read into undeclared",
			src:      "program p; var x; begin read(x, q); end.",
			position: 11,
			rule:     symtab.ErrUndeclaredIdentifier,
			symbol:   "q",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			failure := requireFailure(t, err)

			assert.Equal(t, SemanticError, failure.Kind)
			assert.Equal(t, tt.position, failure.Position)
			assert.Equal(t, tt.symbol, failure.Token.Lexeme)
			assert.True(t, errors.Is(err, tt.rule))

			var symErr *symtab.Error
			require.True(t, errors.As(err, &symErr))
			assert.Equal(t, tt.symbol, symErr.Name)
		})
	}
}

func TestSyntaxOnlySkipsDeclarationChecks(t *testing.T) {
	srcs := []string{
		"program p; const a = 1; var a; begin end.",
		"program p; begin y := 1; end.",
		"program p; const a = 1; begin a := 2; read(a); end.",
	}
	for _, src := range srcs {
		_, err := ParseString(src, SyntaxOnly())
		assert.NoError(t, err, src)

		_, err = ParseString(src)
		assert.Error(t, err, src)
	}
}

func TestParseNil(t *testing.T) {
	_, err := Parse(nil)
	failure := requireFailure(t, err)
	assert.Equal(t, 0, failure.Position)
	assert.Equal(t, "PROGRAM_TOKEN", failure.Expected)
	assert.Equal(t, token.EOF, failure.Token.Kind)
}

func TestParseWithoutEOFToken(t *testing.T) {
	pos := lexer.Position{Line: 1, Column: 1}
	tokens := []token.Token{
		token.New(token.Program, "program", pos),
		token.New(token.Identifier, "p", pos),
		token.New(token.Semicolon, ";", pos),
		token.New(token.Begin, "begin", pos),
		token.New(token.End, "end", pos),
		token.New(token.Period, ".", pos),
	}
	prog, err := Parse(tokens)
	require.NoError(t, err)
	assert.Equal(t, "p", prog.Name)
}

func TestFailureMessages(t *testing.T) {
	_, err := ParseString("program p; begin x := 1 end.", SyntaxOnly())
	require.Error(t, err)
	assert.Equal(t, "syntax error at token 7: expected PV_TOKEN but got END_TOKEN with value 'end'", err.Error())

	_, err = ParseString("program p; begin y := 1; end.")
	require.Error(t, err)
	assert.Equal(t, "semantic error at token 4: undeclared identifier: y", err.Error())
}

func TestFailureTokenPosition(t *testing.T) {
	_, err := ParseString("program p;\nbegin\n  x := 1;\nend.")
	failure := requireFailure(t, err)
	assert.Equal(t, 3, failure.Token.Pos.Line)
	assert.Equal(t, 3, failure.Token.Pos.Column)
}

func TestWithTable(t *testing.T) {
	table := symtab.New()
	require.NoError(t, table.DeclareVariable("x", lexer.Position{}))

	prog, err := ParseString("program p; var y; begin x := 1; y := x; end.", WithTable(table))
	require.NoError(t, err)
	assert.Same(t, table, prog.Symbols)
	assert.Equal(t, []string{"x", "y"}, table.Names())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sum.pas")
	require.NoError(t, os.WriteFile(path, []byte(sumProgram), 0644))

	prog, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sum", prog.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.pas"))
	require.Error(t, err)
	var failure *Failure
	assert.False(t, errors.As(err, &failure))
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := ParseString("program p; const k = 1; var x; begin x := k; end.", WithLogger(zap.New(core)))
	require.NoError(t, err)

	consts := logs.FilterMessage("declared constant").All()
	require.Len(t, consts, 1)
	assert.Equal(t, "k", consts[0].ContextMap()["name"])
	assert.Equal(t, 1, logs.FilterMessage("declared variable").Len())

	_, err = ParseString("program p; begin end", WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("parse failed").Len())
}
