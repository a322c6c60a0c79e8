// Package symbols derives the canonical identifiers of a module's categories
// and errors and assigns their indices.
package symbols

import (
	"github.com/tighterror/tighterror/internal/casing"
	"github.com/tighterror/tighterror/internal/spec"
)

// Table is the symbol table of one module.
type Table struct {
	Module string
	// Prefix is the UpperCamel module name used to namespace identifiers
	// when several modules share one output unit.
	Prefix     string
	Categories []CategorySym
}

// CategorySym names a category. Index is its position in the module.
type CategorySym struct {
	Index int
	Name  string
	Const string // UPPER_SNAKE constant
	Ident string // lower_snake namespace
	Errs  []ErrorSym
}

// ErrorSym names an error. Category and Variant are its indices.
type ErrorSym struct {
	Category int
	Variant  int
	Name     string
	Const    string
	Ident    string
	// VariantType is the variant type name, empty when the error has none.
	VariantType string
}

// Build creates the symbol table of a validated module.
func Build(m *spec.Module) *Table {
	t := &Table{
		Module:     m.Name,
		Prefix:     casing.SnakeToCamel(m.Name),
		Categories: make([]CategorySym, 0, len(m.Categories)),
	}
	for ci, c := range m.Categories {
		cs := CategorySym{
			Index: ci,
			Name:  c.Name,
			Const: casing.CamelToUpperSnake(c.Name),
			Ident: casing.CamelToLowerSnake(c.Name),
			Errs:  make([]ErrorSym, 0, len(c.Errors)),
		}
		for ei, e := range c.Errors {
			es := ErrorSym{
				Category: ci,
				Variant:  ei,
				Name:     e.Name,
				Const:    casing.CamelToUpperSnake(e.Name),
				Ident:    casing.CamelToLowerSnake(e.Name),
			}
			if e.HasVariantType() {
				es.VariantType = e.VariantTypeIdent()
			}
			cs.Errs = append(cs.Errs, es)
		}
		t.Categories = append(t.Categories, cs)
	}
	return t
}

// Error returns the symbol of error (cat, variant).
func (t *Table) Error(cat, variant int) ErrorSym {
	return t.Categories[cat].Errs[variant]
}

// Len returns the number of errors in the module.
func (t *Table) Len() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Errs)
	}
	return n
}
