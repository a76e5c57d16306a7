package mplex

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/vyPal/MiniPascal/lib/token"
)

const eof rune = -1

// Tokenizer turns a character stream into tokens, one per call to Next.
// It never fails: malformed input becomes ERROR_TOKEN values and every
// stream ends in EOF_TOKEN.
type Tokenizer struct {
	r        *bufio.Reader
	filename string

	pos  lexer.Position // next unread character
	last lexer.Position // character most recently read

	back     rune
	backSize int
	hasBack  bool
	lastSize int

	err         error
	errReported bool
	done        bool
}

func New(filename string, r io.Reader) *Tokenizer {
	return &Tokenizer{
		r:        bufio.NewReader(r),
		filename: filename,
		pos:      lexer.Position{Filename: filename, Line: 1, Column: 1},
	}
}

// Err returns the first read error of the underlying reader, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Next returns the next token. Once the input is exhausted every call
// returns an EOF_TOKEN.
func (t *Tokenizer) Next() token.Token {
	if t.done {
		return token.NewEOF(t.pos)
	}

	for {
		start := t.pos
		ch := t.nextChar()

		switch {
		case ch == eof:
			return t.endOfInput()
		case unicode.IsSpace(ch):
			continue
		case ch == '{':
			if !t.skipBraceComment() {
				return token.NewError("{", "unterminated comment, missing '}'", start)
			}
			continue
		case ch == '(':
			next := t.nextChar()
			if next == '*' {
				if !t.skipParenComment() {
					return token.NewError("(*", "unterminated comment, missing '*)'", start)
				}
				continue
			}
			t.putBack(next)
			return token.New(token.LParen, "(", start)
		case isLetter(ch):
			return t.readWord(ch, start)
		case isDigit(ch):
			return t.readNumber(ch, start)
		case ch == '_':
			word := t.readRun(ch)
			return token.NewError(word, "malformed identifier, must start with a letter", start)
		default:
			return t.readSymbol(ch, start)
		}
	}
}

func (t *Tokenizer) endOfInput() token.Token {
	if t.err != nil && !t.errReported {
		t.errReported = true
		return token.NewError("", "read error: "+t.err.Error(), t.pos)
	}
	t.done = true
	return token.NewEOF(t.pos)
}

func (t *Tokenizer) readWord(first rune, start lexer.Position) token.Token {
	word := t.readRun(first)
	return token.New(token.LookupIdent(word), word, start)
}

func (t *Tokenizer) readNumber(first rune, start lexer.Position) token.Token {
	var sb strings.Builder
	sb.WriteRune(first)

	ch := t.nextChar()
	for isDigit(ch) {
		sb.WriteRune(ch)
		ch = t.nextChar()
	}

	if isLetter(ch) || ch == '_' {
		// 3x is neither a number nor an identifier; swallow the whole run.
		sb.WriteString(t.readRun(ch))
		return token.NewError(sb.String(), "malformed number, letters follow digits", start)
	}

	t.putBack(ch)
	return token.New(token.Number, sb.String(), start)
}

// readRun accumulates first plus the maximal run of letters, digits and
// underscores that follows it.
func (t *Tokenizer) readRun(first rune) string {
	var sb strings.Builder
	sb.WriteRune(first)

	ch := t.nextChar()
	for isLetter(ch) || isDigit(ch) || ch == '_' {
		sb.WriteRune(ch)
		ch = t.nextChar()
	}
	t.putBack(ch)
	return sb.String()
}

func (t *Tokenizer) readSymbol(lead rune, start lexer.Position) token.Token {
	sym := string(lead)

	switch lead {
	case ':', '<', '>':
		next := t.nextChar()
		if _, ok := token.LookupSymbol(sym + string(next)); ok && next != eof {
			sym += string(next)
		} else {
			t.putBack(next)
		}
	}

	if kind, ok := token.LookupSymbol(sym); ok {
		return token.New(kind, sym, start)
	}
	return token.NewError(string(lead), "unrecognized symbol", start)
}

func (t *Tokenizer) skipBraceComment() bool {
	for {
		switch t.nextChar() {
		case eof:
			return false
		case '}':
			return true
		}
	}
}

func (t *Tokenizer) skipParenComment() bool {
	for {
		switch t.nextChar() {
		case eof:
			return false
		case '*':
			next := t.nextChar()
			if next == ')' {
				return true
			}
			t.putBack(next)
		}
	}
}

func (t *Tokenizer) nextChar() rune {
	if t.err != nil {
		return eof
	}

	var ch rune
	var size int
	if t.hasBack {
		ch, size = t.back, t.backSize
		t.hasBack = false
	} else {
		r, n, err := t.r.ReadRune()
		if err != nil {
			if err != io.EOF {
				t.err = errors.Wrapf(err, "reading %s", t.filename)
			}
			return eof
		}
		ch, size = r, n
	}

	t.last = t.pos
	t.lastSize = size
	t.pos.Offset += size
	if ch == '\n' {
		t.pos.Line++
		t.pos.Column = 1
	} else {
		t.pos.Column++
	}
	return ch
}

// putBack returns the character most recently read to the stream. Only one
// character of pushback is held.
func (t *Tokenizer) putBack(ch rune) {
	if ch == eof {
		return
	}
	t.back, t.backSize = ch, t.lastSize
	t.hasBack = true
	t.pos = t.last
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// TokenizeReader drains r and returns every token, the trailing EOF_TOKEN
// included.
func TokenizeReader(filename string, r io.Reader) []token.Token {
	t := New(filename, r)

	var tokens []token.Token
	for {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func TokenizeAll(source string) []token.Token {
	return TokenizeReader("", strings.NewReader(source))
}

// TokenizeFile tokenizes the file at path. The only error is failing to open
// it; read errors are reported as an ERROR_TOKEN in the sequence.
func TokenizeFile(path string) ([]token.Token, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening source %s", path)
	}
	defer file.Close()

	return TokenizeReader(path, file), nil
}
