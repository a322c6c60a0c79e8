package driver_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/testkit"
)

func twoModules() *spec.Spec {
	return testkit.Spec(
		testkit.Module("a", testkit.Category("Parsing", "BadToken", "Eof")),
		testkit.Module("b", testkit.Category("Io", "ReadFailed")),
	)
}

func TestPlanNestsModules(t *testing.T) {
	units, err := driver.Plan(context.Background(), twoModules(), driver.PlanOptions{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	u := units[0]
	if u.Name != spec.DefaultModuleName || u.Package != spec.DefaultModuleName || !u.Nested {
		t.Fatalf("unit = %s/%s nested=%t", u.Name, u.Package, u.Nested)
	}
	if len(u.Modules) != 2 || u.Modules[0].Name != "a" || u.Modules[1].Name != "b" {
		t.Fatalf("modules out of order")
	}
	if u.Modules[0].Err.Name != "AError" || u.Modules[1].KindsVar != "BKinds" {
		t.Fatalf("prefixes not applied: %s %s", u.Modules[0].Err.Name, u.Modules[1].KindsVar)
	}
}

func TestPlanSeparateFiles(t *testing.T) {
	units, err := driver.Plan(context.Background(), twoModules(), driver.PlanOptions{SeparateFiles: true, FileStem: "ignored"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	for i, want := range []string{"a", "b"} {
		u := units[i]
		if u.Name != want || u.Package != want || u.Nested {
			t.Fatalf("unit %d = %s/%s nested=%t", i, u.Name, u.Package, u.Nested)
		}
		if u.Modules[0].Prefix != "" || u.Modules[0].Err.Name != "Error" {
			t.Fatalf("separate unit %s must not be prefixed", want)
		}
	}
}

func TestPlanFileStem(t *testing.T) {
	tests := []struct {
		name string
		spec *spec.Spec
		stem string
		unit string
		pkg  string
	}{
		{"single", testkit.Spec(testkit.Module("errs", testkit.Category("General", "Bad"))), "my_errors", "my_errors", "errs"},
		{"single default", testkit.Spec(testkit.Module("errs", testkit.Category("General", "Bad"))), "", "errs", "errs"},
		{"nested", twoModules(), "app-errors", "app-errors", "app_errors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := driver.Plan(context.Background(), tt.spec, driver.PlanOptions{FileStem: tt.stem})
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if units[0].Name != tt.unit || units[0].Package != tt.pkg {
				t.Fatalf("unit = %s/%s, want %s/%s", units[0].Name, units[0].Package, tt.unit, tt.pkg)
			}
		})
	}
}

func TestPlanRejectsInvalidSpec(t *testing.T) {
	s := testkit.Spec(testkit.Module("a", testkit.Category("badName", "Err")))
	_, err := driver.Plan(context.Background(), s, driver.PlanOptions{})
	if diag.CodeOf(err) != diag.BadIdentifierCase {
		t.Fatalf("err = %v", err)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	var mods []*spec.Module
	for i, name := range testkit.Numbered("m", 12) {
		cats := []*spec.Category{testkit.Category("General", testkit.Numbered("E", i+1)...)}
		if i%3 == 0 {
			cats = append(cats, testkit.Category("Other", "Bad"))
		}
		mods = append(mods, testkit.Module(name, cats...))
	}
	dump := func(jobs int) string {
		units, err := driver.Plan(context.Background(), testkit.Spec(mods...), driver.PlanOptions{Test: true, Jobs: jobs})
		if err != nil {
			t.Fatalf("Plan(jobs=%d): %v", jobs, err)
		}
		var buf bytes.Buffer
		for _, u := range units {
			if err := mir.DumpUnit(&buf, u); err != nil {
				t.Fatalf("DumpUnit: %v", err)
			}
		}
		return buf.String()
	}
	if a, b := dump(1), dump(8); a != b {
		t.Fatalf("output depends on parallelism:\n%s\n---\n%s", a, b)
	}
}

func TestPlanNameCollision(t *testing.T) {
	a := testkit.Module("a", testkit.Category("General", "Bad"))
	a.ErrName = spec.String("BcError")
	abc := testkit.Module("a_bc", testkit.Category("General", "Bad"))
	_, err := driver.Plan(context.Background(), testkit.Spec(a, abc), driver.PlanOptions{})
	if diag.CodeOf(err) != diag.NameCollision {
		t.Fatalf("err = %v, want NAME_COLLISION", err)
	}
	// separate files keep the modules apart
	if _, err := driver.Plan(context.Background(), testkit.Spec(a, abc), driver.PlanOptions{SeparateFiles: true}); err != nil {
		t.Fatalf("separate: %v", err)
	}
}

func TestPlanTests(t *testing.T) {
	units, err := driver.Plan(context.Background(), twoModules(), driver.PlanOptions{Test: true, NoStd: true})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	u := units[0]
	if !u.HasTests() || !u.NoStd || u.UsesRuntime() {
		t.Fatalf("unit flags: tests=%t no_std=%t runtime=%t", u.HasTests(), u.NoStd, u.UsesRuntime())
	}
	for _, m := range u.Modules {
		for _, tc := range m.Tests {
			if tc.Kind.NeedsStd() {
				t.Fatalf("%s: test %s needs std", m.Name, tc.Func)
			}
		}
	}
}

func TestPackageName(t *testing.T) {
	tests := []struct{ stem, want string }{
		{"errors", "errors"},
		{"My-Errors", "my_errors"},
		{"1st", spec.DefaultModuleName},
		{"", spec.DefaultModuleName},
		{"func", spec.DefaultModuleName},
	}
	for _, tt := range tests {
		if got := driver.PackageName(tt.stem); got != tt.want {
			t.Errorf("PackageName(%q) = %q, want %q", tt.stem, got, tt.want)
		}
	}
}
