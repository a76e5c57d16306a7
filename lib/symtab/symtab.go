package symtab

import (
	"fmt"
	"sort"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrUndeclaredIdentifier = errors.New("undeclared identifier")
	ErrConstantModification = errors.New("constant modification")
)

type Symbol struct {
	Name       string
	IsConstant bool
	Value      int
	Pos        lexer.Position
}

func (s Symbol) Kind() string {
	if s.IsConstant {
		return "const"
	}
	return "var"
}

// Error is a semantic rule violation on one name.
type Error struct {
	Rule error
	Name string
	// Previous is the earlier declaration for duplicate declarations.
	Previous *Symbol
}

func (e *Error) Error() string {
	switch e.Rule {
	case ErrDuplicateDeclaration:
		if e.Previous != nil {
			return fmt.Sprintf("%s: %s already declared as %s at %s", e.Rule, e.Name, e.Previous.Kind(), e.Previous.Pos)
		}
	case ErrConstantModification:
		return fmt.Sprintf("%s: constant %s cannot be assigned", e.Rule, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Rule
}

// Table is a flat namespace: one symbol per name for the whole program.
type Table struct {
	symbols map[string]Symbol
}

func New() *Table {
	return &Table{
		symbols: make(map[string]Symbol),
	}
}

func (t *Table) DeclareConstant(name string, value int, pos lexer.Position) error {
	return t.declare(Symbol{Name: name, IsConstant: true, Value: value, Pos: pos})
}

func (t *Table) DeclareVariable(name string, pos lexer.Position) error {
	return t.declare(Symbol{Name: name, Pos: pos})
}

func (t *Table) declare(sym Symbol) error {
	if prev, ok := t.symbols[sym.Name]; ok {
		return &Error{Rule: ErrDuplicateDeclaration, Name: sym.Name, Previous: &prev}
	}
	t.symbols[sym.Name] = sym
	return nil
}

func (t *Table) CheckDeclared(name string) error {
	if _, ok := t.symbols[name]; !ok {
		return &Error{Rule: ErrUndeclaredIdentifier, Name: name}
	}
	return nil
}

// CheckAssignable only rejects constants; an undeclared name passes and
// must be caught by CheckDeclared first.
func (t *Table) CheckAssignable(name string) error {
	if sym, ok := t.symbols[name]; ok && sym.IsConstant {
		return &Error{Rule: ErrConstantModification, Name: name}
	}
	return nil
}

func (t *Table) Lookup(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

func (t *Table) Len() int {
	return len(t.symbols)
}

// Names returns the declared names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
