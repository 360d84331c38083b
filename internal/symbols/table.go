// Package symbols provides the symbol table for labels and defines.
// Labels and defines share one namespace and every name can only be
// declared once.
package symbols

import (
	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/retrogolib/set"
	"golang.org/x/exp/slices"
)

// Kind defines the type of a symbol.
type Kind uint8

// symbol kinds.
const (
	Label Kind = iota
	Define
)

func (k Kind) String() string {
	if k == Define {
		return "define"
	}
	return "label"
}

// Symbol is a named entry of the table.
type Symbol struct {
	Name     string
	Kind     Kind
	Location ast.Location

	Address uint16      // bound address of a label
	Value   ast.Operand // value of a define
}

// Table tracks all declared symbols and which of them are referenced.
type Table struct {
	items map[string]*Symbol
	order []*Symbol
	used  set.Set[string]
}

// New creates a new symbol table.
func New() *Table {
	return &Table{
		items: make(map[string]*Symbol),
		used:  set.New[string](),
	}
}

// AddLabel binds a label name to an address.
func (t *Table) AddLabel(name string, address uint16, loc ast.Location) error {
	return t.add(&Symbol{
		Name:     name,
		Kind:     Label,
		Location: loc,
		Address:  address,
	})
}

// AddDefine records a define alias and its value.
func (t *Table) AddDefine(name string, value ast.Operand, loc ast.Location) error {
	return t.add(&Symbol{
		Name:     name,
		Kind:     Define,
		Location: loc,
		Value:    value,
	})
}

func (t *Table) add(sym *Symbol) error {
	if existing, ok := t.items[sym.Name]; ok {
		return asmerr.New(asmerr.ErrDuplicateSymbol, sym.Location,
			"%s '%s' is already declared as %s at %s", sym.Kind, sym.Name, existing.Kind, existing.Location)
	}
	t.items[sym.Name] = sym
	t.order = append(t.order, sym)
	return nil
}

// Get returns the symbol with the given name.
func (t *Table) Get(name string) (*Symbol, bool) {
	sym, ok := t.items[name]
	return sym, ok
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.items)
}

// Resolve returns the numeric value of an immediate operand. Symbol
// operands must name a label, references to defines are replaced by the
// preprocessor and a remaining one was used before it was declared.
func (t *Table) Resolve(op ast.Operand, loc ast.Location) (uint16, error) {
	switch op.Kind {
	case ast.NumberOperand:
		return op.Value, nil

	case ast.SymbolOperand:
		sym, ok := t.items[op.Text]
		if !ok {
			return 0, asmerr.New(asmerr.ErrUnresolvedSymbol, loc, "symbol '%s' is not defined", op.Text)
		}
		if sym.Kind == Define {
			return 0, asmerr.New(asmerr.ErrUnresolvedSymbol, loc,
				"symbol '%s' is used before its define at %s", op.Text, sym.Location)
		}
		t.MarkUsed(op.Text)
		return sym.Address, nil

	default:
		return 0, asmerr.New(asmerr.ErrOperandMismatch, loc, "operand %s is not an immediate value", op)
	}
}

// MarkUsed marks a symbol as referenced.
func (t *Table) MarkUsed(name string) {
	t.used.Add(name)
}

// IsUsed returns whether a symbol was referenced.
func (t *Table) IsUsed(name string) bool {
	return t.used.Contains(name)
}

// Symbols returns all symbols in declaration order.
func (t *Table) Symbols() []*Symbol {
	return t.order
}

// Labels returns all labels sorted by address, labels at the same address
// keep their declaration order.
func (t *Table) Labels() []*Symbol {
	labels := make([]*Symbol, 0, len(t.order))
	for _, sym := range t.order {
		if sym.Kind == Label {
			labels = append(labels, sym)
		}
	}
	slices.SortStableFunc(labels, func(a, b *Symbol) bool {
		return a.Address < b.Address
	})
	return labels
}

// Unused returns all labels that are never referenced by an operand,
// sorted by address.
func (t *Table) Unused() []*Symbol {
	var unused []*Symbol
	for _, sym := range t.Labels() {
		if !t.IsUsed(sym.Name) {
			unused = append(unused, sym)
		}
	}
	return unused
}
