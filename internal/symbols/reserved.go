package symbols

import (
	"go/token"

	"github.com/tighterror/tighterror/internal/spec"
)

// Namespaces holding the category and kind constants.
const (
	CategoriesVar = "Categories"
	KindsVar      = "Kinds"
)

var reservedTopLevel = map[string]struct{}{
	spec.DefaultErrName:     {},
	spec.DefaultErrKindName: {},
	spec.DefaultErrCatName:  {},
	CategoriesVar:           {},
	KindsVar:                {},
}

// IsReservedTopLevel reports whether ident is one of the fixed top-level
// identifiers of a generated module.
func IsReservedTopLevel(ident string) bool {
	_, ok := reservedTopLevel[ident]
	return ok
}

// IsGoKeyword reports whether s cannot be used as a Go package name.
func IsGoKeyword(s string) bool {
	return token.IsKeyword(s)
}

// FromValueFunc names the generated kind decoder.
func FromValueFunc(kindType string) string { return kindType + "FromValue" }

// ResultFunc names a generated result conversion for typ.
func ResultFunc(typ string) string { return typ + "Result" }

// ModuleIdents lists the exported top-level identifiers a module produces
// apart from its variant types, in a fixed order.
func ModuleIdents(m *spec.Module) []string {
	out := []string{
		m.ErrTypeName(),
		m.ErrKindTypeName(),
		m.ErrCatTypeName(),
		CategoriesVar,
		KindsVar,
		FromValueFunc(m.ErrKindTypeName()),
	}
	if m.ResultFromErrKindOr() {
		out = append(out, ResultFunc(m.ErrKindTypeName()))
	}
	if m.ResultFromErrOr() {
		out = append(out, ResultFunc(m.ErrTypeName()))
	}
	return out
}
