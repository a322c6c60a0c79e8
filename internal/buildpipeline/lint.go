package buildpipeline

import (
	"context"
	"fmt"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/parser"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/trace"
)

// LintResult holds every diagnostic found in a spec file.
type LintResult struct {
	FileSet *source.FileSet
	Spec    *spec.Spec
	Bag     *diag.Bag
}

// Clean reports whether no errors were found.
func (r LintResult) Clean() bool {
	return r.Bag == nil || !r.Bag.HasErrors()
}

// Lint parses path and collects all violations without generating code.
// Parse failures land in the bag like any other diagnostic.
func Lint(ctx context.Context, path string, maxDiagnostics int) (LintResult, error) {
	res := LintResult{FileSet: source.NewFileSet(), Bag: diag.NewBag(maxDiagnostics)}
	if path == "" {
		return res, fmt.Errorf("missing specification path")
	}
	_, span := trace.Begin(ctx, trace.ScopeRun, "lint")
	span.Attr("spec", path)
	defer span.End("")

	rep := diag.Dedup(diag.BagReporter{Bag: res.Bag})
	s, err := parser.ParseFile(res.FileSet, path)
	if err != nil {
		diag.Report(rep, err)
		return res, nil
	}
	res.Spec = s
	driver.Lint(s, rep)
	res.Bag.Sort()
	return res, nil
}
