package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tighterror/tighterror/internal/layout"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/symbols"
	"github.com/tighterror/tighterror/internal/trace"
)

// BuildModules plans and builds every module concurrently. Results keep
// the order of mods; when several modules fail the lowest index wins.
func BuildModules(ctx context.Context, mods []*spec.Module, opts mir.Options, jobs int) ([]*mir.Module, error) {
	if len(mods) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*mir.Module, len(mods))
	errs := make([]error, len(mods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(mods)))
	for i, mod := range mods {
		g.Go(func() error {
			// Проверяем отмену контекста
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			_, span := trace.Begin(gctx, trace.ScopeModule, "build_module")
			span.Attr("module", mod.Name)
			m, err := buildModule(mod, opts)
			if err != nil {
				span.End("error")
				// not returned: a sibling must not cancel a lower-index failure
				errs[i] = err
				return nil
			}
			span.End("")
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func buildModule(mod *spec.Module, opts mir.Options) (*mir.Module, error) {
	plan, err := layout.PlanModule(mod)
	if err != nil {
		return nil, err
	}
	m := mir.Build(mod, plan, symbols.Build(mod), opts)
	if err := mir.Validate(m); err != nil {
		return nil, fmt.Errorf("internal error: module %s: %w", mod.Name, err)
	}
	return m, nil
}
