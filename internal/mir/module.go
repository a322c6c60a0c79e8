// Package mir is the symbolic description of generated error modules.
//
// Build turns a validated spec module, its bit plan and its symbol table
// into a Module: every type, constant, table, variant type and canned test
// that the Go back-end renders, with identifiers and documentation already
// resolved. The back-end must not reorder anything it finds here.
package mir

import "github.com/tighterror/tighterror/internal/layout"

// DefaultRuntimePath is the import path of the runtime package generated
// code uses unless the unit names another one.
const DefaultRuntimePath = "github.com/tighterror/tighterror"

// Options are the generation knobs that do not come from the spec module.
type Options struct {
	// Test requests the canned test bundle.
	Test bool
	// NoStd drops the runtime import and everything built on it.
	NoStd bool
	// Nested prefixes every top-level identifier with the module name.
	Nested bool
}

// Unit is one generated Go file (plus its test file).
type Unit struct {
	// Name is the file stem.
	Name    string
	Package string
	// Doc is the package documentation; empty for nested units.
	Doc   string
	NoStd bool
	// Nested is set when several modules share the unit and their
	// identifiers carry a prefix.
	Nested  bool
	Modules []*Module
	// Runtime overrides DefaultRuntimePath, e.g. for a fork or vendored copy.
	Runtime string
}

// HasTests reports whether any module of the unit carries tests.
func (u *Unit) HasTests() bool {
	for _, m := range u.Modules {
		if len(m.Tests) > 0 {
			return true
		}
	}
	return false
}

// RuntimeImport is the import path written into the unit.
func (u *Unit) RuntimeImport() string {
	if u.Runtime != "" {
		return u.Runtime
	}
	return DefaultRuntimePath
}

// UsesRuntime reports whether the unit imports the runtime package.
func (u *Unit) UsesRuntime() bool {
	return !u.NoStd && len(u.Modules) > 0
}

// Module is the symbolic output of one spec module.
type Module struct {
	Name string
	// Prefix is prepended to every top-level identifier; empty unless the
	// module is nested in a multi-module unit.
	Prefix string
	Doc    string

	Plan  layout.BitPlan
	Repr  string
	NoStd bool
	// ErrorTrait is set when Error and variant types implement error.
	ErrorTrait bool
	Flat       bool

	Err  TypeDecl
	Kind TypeDecl
	Cat  TypeDecl

	CategoriesVar string
	KindsVar      string
	FromValue     string
	// KindResult and ErrResult are empty when the conversion is disabled.
	KindResult string
	ErrResult  string

	Private Private

	// CategoryMax is the largest category index.
	CategoryMax uint64
	Check       CheckKind

	Categories   []*Category
	Kinds        []*Kind
	VariantTypes []*VariantType

	// InvalidProbes are representable values FromValue must reject.
	InvalidProbes []uint64
	Tests         []TestCase
}

// TypeDecl is a generated type name with its documentation.
type TypeDecl struct {
	Name string
	Doc  string
}

// Private holds the unexported identifiers of a module.
type Private struct {
	VariantBits   string
	VariantMask   string
	CategoryMax   string
	CategoryNames string
	KindNames     string
	KindDisplays  string
	VariantMax    string
	// CategoryCases and KindCases are the tables of the test bundle.
	CategoryCases string
	KindCases     string
}

// Category is one generated category constant.
type Category struct {
	Index int
	Name  string
	// Const is the field of the categories variable.
	Const string
	Ident string
	Doc   string
	// Ref is the Go expression denoting the constant.
	Ref string
	// KindsField and KindsType name the per-category group of kind
	// constants; both are empty for flat kinds.
	KindsField string
	KindsType  string
	Kinds      []*Kind
	// VariantMax is the largest variant index of the category.
	VariantMax uint64
}

// Kind is one generated kind constant.
type Kind struct {
	Category int
	Variant  int
	Name     string
	Const    string
	Ident    string
	Display  string
	Doc      string
	Value    uint64
	Ref      string
	// VariantType is nil unless the error has one.
	VariantType *VariantType
}

// VariantType is a generated empty per-error type.
type VariantType struct {
	Name string
	Doc  string
	Kind *Kind
}

// CheckKind selects the range check emitted in the FromValue function.
type CheckKind uint8

const (
	// CheckCategoryMax compares the category against the largest index and
	// the variant against the table of per-category maxima.
	CheckCategoryMax CheckKind = iota
	// CheckCategoryZero is used without category bits: bits above the
	// variant must be zero.
	CheckCategoryZero
	// CheckVariantOnly is used when the variant fills the whole
	// representation.
	CheckVariantOnly
)

func (c CheckKind) String() string {
	switch c {
	case CheckCategoryMax:
		return "category_max"
	case CheckCategoryZero:
		return "category_zero"
	case CheckVariantOnly:
		return "variant_only"
	}
	return "unknown"
}

// Ident returns the exported identifier name in the module's namespace.
func (m *Module) Ident(name string) string {
	return m.Prefix + name
}

// Lookup returns the kind at (cat, variant).
func (m *Module) Lookup(cat, variant int) *Kind {
	return m.Categories[cat].Kinds[variant]
}

// HasCategoryBits reports whether kind values carry a category.
func (m *Module) HasCategoryBits() bool {
	return m.Plan.CategoryBits > 0
}
