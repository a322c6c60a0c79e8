package testkit

import (
	"fmt"
	"testing"

	"github.com/tighterror/tighterror/internal/layout"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/sema"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/symbols"
)

// Category builds a spec category with plain errors.
func Category(name string, errs ...string) *spec.Category {
	c := &spec.Category{Name: name}
	for _, e := range errs {
		c.Errors = append(c.Errors, &spec.Error{Name: e})
	}
	return c
}

// Module builds a spec module.
func Module(name string, cats ...*spec.Category) *spec.Module {
	return &spec.Module{Name: name, Categories: cats}
}

// Spec wraps modules into a spec.
func Spec(mods ...*spec.Module) *spec.Spec {
	return &spec.Spec{Modules: mods}
}

// Numbered returns prefix0 .. prefix{n-1}.
func Numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

// BuildModule validates mod and runs it through planning, symbols and the
// module builder, failing the test on any error or broken invariant.
func BuildModule(t testing.TB, mod *spec.Module, opts mir.Options) *mir.Module {
	t.Helper()
	if err := sema.Validate(Spec(mod)); err != nil {
		t.Fatalf("validate: %v", err)
	}
	plan, err := layout.PlanModule(mod)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if err := CheckPlanInvariants(plan); err != nil {
		t.Fatalf("plan invariants: %v", err)
	}
	m := mir.Build(mod, plan, symbols.Build(mod), opts)
	if err := mir.Validate(m); err != nil {
		t.Fatalf("mir invariants: %v", err)
	}
	return m
}
