// Package driver turns a validated specification into generation units and
// writes their rendered files.
//
// A spec with a single module, or any spec in separate-files mode, yields
// one unit per module. Otherwise every module is nested into one unit whose
// identifiers carry the module prefix.
package driver

import (
	"context"
	"fmt"
	"go/token"
	"strings"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/sema"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/trace"
)

// PlanOptions control unit grouping and module generation.
type PlanOptions struct {
	Test          bool
	NoStd         bool
	SeparateFiles bool
	// FileStem names the unit when output goes to a single file. It is
	// ignored in separate-files mode.
	FileStem string
	// Jobs bounds parallel module builds; <= 0 means GOMAXPROCS.
	Jobs int
	// Runtime is the runtime import path; empty selects mir.DefaultRuntimePath.
	Runtime string
}

// Plan validates s and returns its units in spec order.
func Plan(ctx context.Context, s *spec.Spec, opts PlanOptions) ([]*mir.Unit, error) {
	if s == nil {
		return nil, fmt.Errorf("missing specification")
	}
	ctx, span := trace.Begin(ctx, trace.ScopeStage, "plan")
	defer span.End("")

	if err := sema.Validate(s); err != nil {
		return nil, err
	}

	nested := len(s.Modules) > 1 && !opts.SeparateFiles
	mopts := mir.Options{Test: opts.Test, NoStd: opts.NoStd, Nested: nested}
	mods, err := BuildModules(ctx, s.Modules, mopts, opts.Jobs)
	if err != nil {
		return nil, err
	}

	if !nested {
		units := make([]*mir.Unit, len(mods))
		for i, m := range mods {
			name := m.Name
			if len(mods) == 1 && opts.FileStem != "" && !opts.SeparateFiles {
				name = opts.FileStem
			}
			units[i] = &mir.Unit{
				Name:    name,
				Package: m.Name,
				Doc:     m.Doc,
				NoStd:   opts.NoStd,
				Modules: []*mir.Module{m},
				Runtime: opts.Runtime,
			}
		}
		return units, nil
	}

	name := opts.FileStem
	if name == "" {
		name = spec.DefaultModuleName
	}
	u := &mir.Unit{
		Name:    name,
		Package: PackageName(name),
		NoStd:   opts.NoStd,
		Nested:  true,
		Modules: mods,
		Runtime: opts.Runtime,
	}
	if err := checkCollisions(u, s.Modules); err != nil {
		return nil, err
	}
	return []*mir.Unit{u}, nil
}

// checkCollisions rejects identifiers declared by two nested modules, such
// as module "a" with type "BError" next to module "a_b" with type "Error".
func checkCollisions(u *mir.Unit, mods []*spec.Module) error {
	owner := make(map[string]int)
	for i, m := range u.Modules {
		for _, id := range m.TopLevel() {
			j, dup := owner[id]
			if !dup {
				owner[id] = i
				continue
			}
			if j == i {
				continue
			}
			return &diag.Error{Diag: diag.NewError(diag.NameCollision, mods[i].NameSpan,
				fmt.Sprintf("modules %s and %s both declare %s", u.Modules[j].Name, m.Name, id)).
				WithNote(mods[j].NameSpan, "first declared by this module")}
		}
	}
	return nil
}

// PackageName derives a Go package name from a file stem.
func PackageName(stem string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || name[0] < 'a' || name[0] > 'z' || token.IsKeyword(name) {
		return spec.DefaultModuleName
	}
	return name
}
