package sema

import (
	"fmt"
	"strings"

	"github.com/tighterror/tighterror/internal/casing"
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/symbols"
)

type checker struct {
	rep      diag.Reporter
	failFast bool
	failed   bool
}

// Validate returns the first violation in s, or nil.
func Validate(s *spec.Spec) error {
	var first diag.FirstErrorReporter
	c := &checker{rep: &first, failFast: true}
	c.checkSpec(s)
	return first.Err()
}

// Check reports every violation in s to rep and returns true when s is valid.
func Check(s *spec.Spec, rep diag.Reporter) bool {
	c := &checker{rep: rep}
	c.checkSpec(s)
	return !c.failed
}

func (c *checker) errorf(code diag.Code, span source.Span, format string, args ...any) *diag.Pending {
	c.failed = true
	return diag.ReportError(c.rep, code, span, fmt.Sprintf(format, args...))
}

func (c *checker) stop() bool {
	return c.failFast && c.failed
}

func (c *checker) checkSpec(s *spec.Spec) {
	if len(s.Modules) == 0 {
		c.errorf(diag.EmptyList, s.Main.Span, "spec defines no modules").Emit()
		return
	}
	for _, m := range s.Modules {
		c.checkModule(m)
		if c.stop() {
			return
		}
	}
	names := make([]named, 0, len(s.Modules))
	for _, m := range s.Modules {
		names = append(names, named{m.Name, m.NameSpan})
	}
	c.unique(names, "module names must be unique")
}

func (c *checker) checkModule(m *spec.Module) {
	if !c.checkLists(m) && c.stop() {
		return
	}
	if c.checkIdents(m); c.stop() {
		return
	}
	if c.checkCollisions(m); c.stop() {
		return
	}
	c.checkUniqueness(m)
}

func (c *checker) checkLists(m *spec.Module) bool {
	ok := true
	if len(m.Categories) == 0 {
		c.errorf(diag.EmptyList, m.Span, "module `%s`: at least one category must be defined", m.Name).Emit()
		ok = false
	}
	for _, cat := range m.Categories {
		if len(cat.Errors) == 0 {
			c.errorf(diag.EmptyList, cat.Span, "module `%s`, category `%s`: at least one error must be defined", m.Name, cat.Name).Emit()
			ok = false
			if c.stop() {
				return false
			}
		}
	}
	return ok
}

func (c *checker) checkIdents(m *spec.Module) {
	if c.moduleName(m); c.stop() {
		return
	}
	overrides := []struct {
		kw        string
		value     *string
		canonical string
	}{
		{spec.KwErrName, m.ErrName, spec.DefaultErrName},
		{spec.KwErrKindName, m.ErrKindName, spec.DefaultErrKindName},
		{spec.KwErrCatName, m.ErrCatName, spec.DefaultErrCatName},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		what := fmt.Sprintf("module `%s` %s", m.Name, o.kw)
		if c.typeIdent(*o.value, m.Span, what) {
			if *o.value != o.canonical && symbols.IsReservedTopLevel(*o.value) {
				c.errorf(diag.BadModuleIdentifier, m.Span, "%s cannot be a reserved identifier: %s", what, *o.value).Emit()
			}
		}
		if c.stop() {
			return
		}
	}
	for _, cat := range m.Categories {
		c.name(cat.Name, cat.NameSpan, fmt.Sprintf("module `%s` category name", m.Name))
		if c.stop() {
			return
		}
		for _, e := range cat.Errors {
			c.name(e.Name, e.NameSpan, fmt.Sprintf("category `%s` error name", cat.Name))
			if c.stop() {
				return
			}
			if e.VariantTypeName == nil {
				continue
			}
			what := fmt.Sprintf("error `%s` %s", e.Name, spec.KwVariantTypeName)
			if c.name(*e.VariantTypeName, e.VariantTypeSpan, what) && symbols.IsReservedTopLevel(*e.VariantTypeName) {
				c.errorf(diag.BadModuleIdentifier, e.VariantTypeSpan, "%s cannot be a reserved identifier: %s", what, *e.VariantTypeName).Emit()
			}
			if c.stop() {
				return
			}
		}
	}
}

func (c *checker) moduleName(m *spec.Module) {
	what := "module name"
	if !c.ident(m.Name, m.NameSpan, what, casing.LowerSnake) {
		return
	}
	if spec.IsKeyword(m.Name) || symbols.IsGoKeyword(m.Name) {
		c.errorf(diag.BadName, m.NameSpan, "%s cannot be a reserved keyword: %s", what, m.Name).Emit()
	}
}

// name checks an UpperCamel category, error or variant type name.
func (c *checker) name(name string, span source.Span, what string) bool {
	if !c.typeIdent(name, span, what) {
		return false
	}
	if spec.IsKeyword(name) {
		c.errorf(diag.BadName, span, "%s cannot be a reserved keyword: %s", what, name).Emit()
		return false
	}
	return true
}

func (c *checker) typeIdent(name string, span source.Span, what string) bool {
	return c.ident(name, span, what, casing.UpperCamel)
}

func (c *checker) ident(name string, span source.Span, what string, cs casing.Case) bool {
	switch {
	case name == "":
		c.errorf(diag.EmptyIdentifier, span, "%s cannot be an empty string", what).Emit()
	case !casing.ValidChars(name, cs):
		c.errorf(diag.BadIdentifierCharacters, span, "%s contains unsupported characters: %q", what, name).Emit()
	case !casing.Is(name, cs):
		c.errorf(diag.BadIdentifierCase, span, "%s must be specified in %s case: %s", what, cs, name).Emit()
	default:
		return true
	}
	return false
}

func (c *checker) checkCollisions(m *spec.Module) {
	errName, kindName, catName := m.ErrTypeName(), m.ErrKindTypeName(), m.ErrCatTypeName()
	switch {
	case errName == catName:
		c.errorf(diag.NameCollision, m.Span, "module `%s`: error name equals error category name: %s", m.Name, errName).Emit()
	case errName == kindName:
		c.errorf(diag.NameCollision, m.Span, "module `%s`: error name equals error kind name: %s", m.Name, errName).Emit()
	case catName == kindName:
		c.errorf(diag.NameCollision, m.Span, "module `%s`: error category name equals error kind name: %s", m.Name, catName).Emit()
	}
	if c.stop() {
		return
	}
	idents := symbols.ModuleIdents(m)
	for _, cat := range m.Categories {
		for _, e := range cat.Errors {
			if !e.HasVariantType() {
				continue
			}
			vt := e.VariantTypeIdent()
			for _, id := range idents {
				if vt == id {
					span := e.VariantTypeSpan
					if e.VariantTypeName == nil {
						span = e.NameSpan
					}
					c.errorf(diag.NameCollision, span, "error `%s`: variant type name collides with generated identifier %s", e.Name, vt).Emit()
					break
				}
			}
			if c.stop() {
				return
			}
		}
	}
}

type named struct {
	name string
	span source.Span
}

func (c *checker) checkUniqueness(m *spec.Module) {
	cats := make([]named, 0, len(m.Categories))
	for _, cat := range m.Categories {
		cats = append(cats, named{cat.Name, cat.NameSpan})
	}
	if c.unique(cats, fmt.Sprintf("module `%s`: category names must be unique", m.Name)); c.stop() {
		return
	}

	var all, variants []named
	for _, cat := range m.Categories {
		errs := make([]named, 0, len(cat.Errors))
		for _, e := range cat.Errors {
			errs = append(errs, named{e.Name, e.NameSpan})
			if e.HasVariantType() {
				span := e.VariantTypeSpan
				if e.VariantTypeName == nil {
					span = e.NameSpan
				}
				variants = append(variants, named{e.VariantTypeIdent(), span})
			}
		}
		if c.unique(errs, fmt.Sprintf("category `%s`: error names must be unique", cat.Name)); c.stop() {
			return
		}
		all = append(all, errs...)
	}
	if m.FlatKindsOr() {
		if c.unique(all, fmt.Sprintf("module `%s` (flat_kinds): error names must be unique", m.Name)); c.stop() {
			return
		}
	}
	c.unique(variants, fmt.Sprintf("module `%s`: variant type names must be unique", m.Name))
}

// unique reports every name that repeats an earlier one, ignoring case.
func (c *checker) unique(items []named, msg string) {
	seen := make(map[string]named, len(items))
	for _, it := range items {
		key := strings.ToLower(it.name)
		first, dup := seen[key]
		if !dup {
			seen[key] = it
			continue
		}
		c.errorf(diag.NonUniqueName, it.span, "%s: %s", msg, it.name).
			WithNote(first.span, fmt.Sprintf("`%s` first defined here", first.name)).
			Emit()
		if c.stop() {
			return
		}
	}
}
