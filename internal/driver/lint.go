package driver

import (
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/layout"
	"github.com/tighterror/tighterror/internal/sema"
	"github.com/tighterror/tighterror/internal/spec"
)

// Lint reports every violation in s to r and tells whether s is clean.
// Bit planning only runs once the naming rules hold.
func Lint(s *spec.Spec, r diag.Reporter) bool {
	if !sema.Check(s, r) {
		return false
	}
	ok := true
	for _, m := range s.Modules {
		if _, err := layout.PlanModule(m); err != nil {
			diag.Report(r, err)
			ok = false
		}
	}
	return ok
}
