package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	mplex "github.com/vyPal/MiniPascal/lib/lexer"
	"github.com/vyPal/MiniPascal/lib/symtab"
	"github.com/vyPal/MiniPascal/lib/token"
	"go.uber.org/zap"
)

// Program is what a successful parse yields.
type Program struct {
	Name         string
	Symbols      *symtab.Table
	Constants    int
	Variables    int
	Instructions int
}

type Option func(*Parser)

func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithTable makes the parser record declarations in table instead of a
// fresh one.
func WithTable(table *symtab.Table) Option {
	return func(p *Parser) {
		p.table = table
	}
}

// SyntaxOnly turns off the symbol table checks, leaving a pure grammar
// check.
func SyntaxOnly() Option {
	return func(p *Parser) {
		p.semantic = false
	}
}

// Parser is a one-token-lookahead recursive-descent analyzer. The cursor only
// moves forward, so a Parser is good for a single Parse call.
type Parser struct {
	tokens   []token.Token
	current  int
	table    *symtab.Table
	log      *zap.Logger
	prog     *Program
	semantic bool
}

func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		table:    symtab.New(),
		log:      zap.NewNop(),
		semantic: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse validates the whole token sequence. On failure the error is a
// *Failure.
func (p *Parser) Parse() (*Program, error) {
	p.prog = &Program{Symbols: p.table}
	if err := p.parseProgram(); err != nil {
		p.log.Debug("parse failed", zap.Int("position", p.current), zap.Error(err))
		return nil, err
	}
	return p.prog, nil
}

func Parse(tokens []token.Token, opts ...Option) (*Program, error) {
	return New(tokens, opts...).Parse()
}

func ParseString(source string, opts ...Option) (*Program, error) {
	return Parse(mplex.TokenizeAll(source), opts...)
}

func ParseFile(filename string, opts ...Option) (*Program, error) {
	tokens, err := mplex.TokenizeFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	if p.current >= len(p.tokens) {
		return p.eof()
	}
	tok := p.tokens[p.current]
	p.current++
	return tok
}

func (p *Parser) eof() token.Token {
	if len(p.tokens) == 0 {
		return token.NewEOF(lexer.Position{})
	}
	return token.NewEOF(p.tokens[len(p.tokens)-1].Pos)
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	pos := p.current
	tok := p.advance()
	if tok.Kind != kind {
		return tok, p.syntaxError(pos, tok, kind.String())
	}
	return tok, nil
}

func (p *Parser) syntaxError(pos int, tok token.Token, expected string) *Failure {
	return &Failure{
		Kind:     SyntaxError,
		Position: pos,
		Token:    tok,
		Expected: expected,
		Actual:   describe(tok),
	}
}

func (p *Parser) semanticError(pos int, tok token.Token, err error) *Failure {
	return &Failure{
		Kind:     SemanticError,
		Position: pos,
		Token:    tok,
		Expected: expectedFor(err),
		Actual:   describe(tok),
		Err:      err,
	}
}

func expectedFor(err error) string {
	switch {
	case errors.Is(err, symtab.ErrDuplicateDeclaration):
		return "a name not yet declared"
	case errors.Is(err, symtab.ErrUndeclaredIdentifier):
		return "a declared identifier"
	case errors.Is(err, symtab.ErrConstantModification):
		return "an assignable variable"
	}
	return "a valid identifier"
}

func (p *Parser) parseProgram() error {
	if _, err := p.expect(token.Program); err != nil {
		return err
	}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}
	p.prog.Name = name.Lexeme

	if _, err := p.expect(token.Semicolon); err != nil {
		return err
	}
	if err := p.parseBlock(); err != nil {
		return err
	}
	if _, err := p.expect(token.Period); err != nil {
		return err
	}
	_, err = p.expect(token.EOF)
	return err
}

func (p *Parser) parseBlock() error {
	if err := p.parseConsts(); err != nil {
		return err
	}
	if err := p.parseVars(); err != nil {
		return err
	}
	return p.parseInstructions()
}

// parseConsts requires at least one declaration once 'const' is seen and
// keeps going while the next token is an identifier.
func (p *Parser) parseConsts() error {
	if !p.match(token.Const) {
		return nil
	}
	for {
		if err := p.parseConstDecl(); err != nil {
			return err
		}
		if !p.check(token.Identifier) {
			return nil
		}
	}
}

func (p *Parser) parseConstDecl() error {
	identPos := p.current
	ident, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}

	opPos := p.current
	if op := p.advance(); op.Kind != token.Equal && op.Kind != token.Assign {
		return p.syntaxError(opPos, op, token.Equal.String()+" or "+token.Assign.String())
	}

	numPos := p.current
	num, err := p.expect(token.Number)
	if err != nil {
		return err
	}
	value, convErr := strconv.Atoi(num.Lexeme)
	if convErr != nil {
		return p.syntaxError(numPos, num, token.Number.String()+" within integer range")
	}

	if err := p.table.DeclareConstant(ident.Lexeme, value, ident.Pos); err != nil && p.semantic {
		return p.semanticError(identPos, ident, err)
	}
	p.prog.Constants++
	p.log.Debug("declared constant", zap.String("name", ident.Lexeme), zap.Int("value", value))

	_, err = p.expect(token.Semicolon)
	return err
}

func (p *Parser) parseVars() error {
	if !p.match(token.Var) {
		return nil
	}
	for {
		if err := p.parseVarDecl(); err != nil {
			return err
		}
		for p.match(token.Comma) {
			if err := p.parseVarDecl(); err != nil {
				return err
			}
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return err
		}
		if !p.check(token.Identifier) {
			return nil
		}
	}
}

func (p *Parser) parseVarDecl() error {
	pos := p.current
	ident, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}
	if err := p.table.DeclareVariable(ident.Lexeme, ident.Pos); err != nil && p.semantic {
		return p.semanticError(pos, ident, err)
	}
	p.prog.Variables++
	p.log.Debug("declared variable", zap.String("name", ident.Lexeme))
	return nil
}

// parseInstructions handles begin ... end. Every instruction, the last one
// included, is terminated by ';'.
func (p *Parser) parseInstructions() error {
	if _, err := p.expect(token.Begin); err != nil {
		return err
	}
	for !p.check(token.End) {
		if err := p.parseInstruction(); err != nil {
			return err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return err
		}
	}
	_, err := p.expect(token.End)
	return err
}

func (p *Parser) parseInstruction() error {
	p.prog.Instructions++

	switch p.peek().Kind {
	case token.Identifier:
		return p.parseAssignment()
	case token.If:
		p.advance()
		return p.parseIf()
	case token.While:
		p.advance()
		return p.parseWhile()
	case token.Read:
		p.advance()
		return p.parseRead()
	case token.Write:
		p.advance()
		return p.parseWrite()
	case token.Begin:
		return p.parseInstructions()
	}
	return p.syntaxError(p.current, p.peek(), "instruction")
}

func (p *Parser) parseAssignment() error {
	if err := p.parseTarget(); err != nil {
		return err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return err
	}
	return p.parseExpr()
}

// parseTarget consumes an identifier that is about to be written to.
func (p *Parser) parseTarget() error {
	pos := p.current
	ident, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}
	if !p.semantic {
		return nil
	}
	if err := p.table.CheckDeclared(ident.Lexeme); err != nil {
		return p.semanticError(pos, ident, err)
	}
	if err := p.table.CheckAssignable(ident.Lexeme); err != nil {
		return p.semanticError(pos, ident, err)
	}
	return nil
}

func (p *Parser) parseIf() error {
	if err := p.parseCondition(); err != nil {
		return err
	}
	if _, err := p.expect(token.Then); err != nil {
		return err
	}
	return p.parseInstruction()
}

func (p *Parser) parseWhile() error {
	if err := p.parseCondition(); err != nil {
		return err
	}
	if _, err := p.expect(token.Do); err != nil {
		return err
	}
	return p.parseInstruction()
}

func (p *Parser) parseRead() error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	if err := p.parseTarget(); err != nil {
		return err
	}
	for p.match(token.Comma) {
		if err := p.parseTarget(); err != nil {
			return err
		}
	}
	_, err := p.expect(token.RParen)
	return err
}

func (p *Parser) parseWrite() error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	if err := p.parseExpr(); err != nil {
		return err
	}
	for p.match(token.Comma) {
		if err := p.parseExpr(); err != nil {
			return err
		}
	}
	_, err := p.expect(token.RParen)
	return err
}

// parseCondition accepts ':=' as equality alongside '='.
func (p *Parser) parseCondition() error {
	if err := p.parseExpr(); err != nil {
		return err
	}
	if !p.peek().Kind.IsRelational() {
		return p.syntaxError(p.current, p.peek(), "relational operator")
	}
	p.advance()
	return p.parseExpr()
}

func (p *Parser) parseExpr() error {
	if err := p.parseTerm(); err != nil {
		return err
	}
	for p.match(token.Plus) || p.match(token.Minus) {
		if err := p.parseTerm(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseTerm() error {
	if err := p.parseFactor(); err != nil {
		return err
	}
	for p.match(token.Mult) || p.match(token.Div) {
		if err := p.parseFactor(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseFactor() error {
	pos := p.current
	tok := p.peek()

	switch tok.Kind {
	case token.Identifier:
		p.advance()
		if !p.semantic {
			return nil
		}
		if err := p.table.CheckDeclared(tok.Lexeme); err != nil {
			return p.semanticError(pos, tok, err)
		}
		return nil
	case token.Number:
		p.advance()
		return nil
	case token.LParen:
		p.advance()
		if err := p.parseExpr(); err != nil {
			return err
		}
		_, err := p.expect(token.RParen)
		return err
	}
	return p.syntaxError(pos, tok, "factor")
}
