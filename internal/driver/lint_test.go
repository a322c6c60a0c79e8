package driver_test

import (
	"testing"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/testkit"
)

func TestLintCollectsEveryViolation(t *testing.T) {
	s := testkit.Spec(
		testkit.Module("a", testkit.Category("badName", "Err"), testkit.Category("Io", "dup", "Ok")),
		testkit.Module("b", &spec.Category{Name: "Empty"}),
	)
	bag := diag.NewBag(100)
	if driver.Lint(s, diag.BagReporter{Bag: bag}) {
		t.Fatal("Lint accepted an invalid spec")
	}
	codes := make(map[diag.Code]bool)
	for _, d := range bag.Items() {
		codes[d.Code] = true
	}
	for _, want := range []diag.Code{diag.BadIdentifierCase, diag.EmptyList} {
		if !codes[want] {
			t.Errorf("missing %s in %v", want, bag.Items())
		}
	}
	if bag.Len() < 3 {
		t.Fatalf("got %d diagnostics, want at least 3", bag.Len())
	}
}

func TestLintCleanSpec(t *testing.T) {
	bag := diag.NewBag(10)
	if !driver.Lint(twoModules(), diag.BagReporter{Bag: bag}) {
		t.Fatalf("Lint rejected a clean spec: %v", bag.Items())
	}
	if bag.Len() != 0 {
		t.Fatalf("diagnostics on clean spec: %v", bag.Items())
	}
}
