// Package spec holds the parsed error specification handed to the encoder.
//
// Values are built by internal/parser (or by hand in tests) and treated as
// immutable afterwards. Optional attributes are pointers; accessor methods
// resolve them against their defaults.
package spec

import "github.com/tighterror/tighterror/internal/source"

// Spec is the root of a parsed specification.
type Spec struct {
	Main    Main
	Modules []*Module
	// Path is the spec file path; empty for in-memory specs.
	Path string
}

// Main carries global knobs.
type Main struct {
	Output        *string
	NoStd         *bool
	SeparateFiles *bool
	Span          source.Span
}

// Module is one family of errors rendered into one output namespace.
type Module struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	// Implicit is set when the spec had no module object and the parser
	// synthesised this one.
	Implicit bool

	Doc        *string
	ErrDoc     *string
	ErrKindDoc *string
	ErrCatDoc  *string

	ErrName     *string
	ErrKindName *string
	ErrCatName  *string

	ResultFromErr     *bool
	ResultFromErrKind *bool
	ErrorTrait        *bool
	FlatKinds         *bool
	DocFromDisplay    *bool

	Categories []*Category
}

// Category is a named group of errors.
type Category struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	// Implicit marks the General category created for a bare errors list.
	Implicit bool

	Doc            *string
	DocFromDisplay *bool

	Errors []*Error
}

// Error defines one error kind.
type Error struct {
	Name     string
	NameSpan source.Span
	Span     source.Span

	Display         *string
	Doc             *string
	DocFromDisplay  *bool
	VariantType     *bool
	VariantTypeName *string
	VariantTypeSpan source.Span
}

// Bool returns a pointer to v, for building specs in code.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for building specs in code.
func String(v string) *string { return &v }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
