// Package buildpipeline orchestrates one generation run: parse, validate,
// plan, render and write, with progress events, stage timings and the
// generation cache.
package buildpipeline

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/tighterror/tighterror/internal/backend/golang"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/observ"
	"github.com/tighterror/tighterror/internal/parser"
	"github.com/tighterror/tighterror/internal/sema"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
	"github.com/tighterror/tighterror/internal/trace"
	"github.com/tighterror/tighterror/internal/version"
)

// GenerateRequest configures one generation run.
type GenerateRequest struct {
	SpecPath string
	// Dst and OutputDir override main.output (--dst, --output).
	Dst       string
	OutputDir string
	Test      bool
	// NoStd and SeparateFiles override main when non-nil.
	NoStd         *bool
	SeparateFiles *bool
	Update        bool
	Jobs          int
	// Runtime replaces the default runtime import path when set.
	Runtime string
	// Cache is consulted and filled when non-nil.
	Cache *driver.DiskCache
	// Stdout receives files for the stdout destination.
	Stdout io.Writer
	// MIR receives a dump of the planned units when non-nil; the cache is
	// bypassed then.
	MIR      io.Writer
	Progress ProgressSink
}

// GenerateResult captures what a run produced.
type GenerateResult struct {
	FileSet  *source.FileSet
	Spec     *spec.Spec
	Dest     driver.Destination
	Units    []*mir.Unit
	Files    []golang.File
	Written  []driver.WriteResult
	CacheHit bool
	Timings  Timings
	Timer    *observ.Timer
}

// Generate runs the whole pipeline. Nothing is written when an earlier
// stage fails.
func Generate(ctx context.Context, req *GenerateRequest) (GenerateResult, error) {
	result := GenerateResult{FileSet: source.NewFileSet(), Timer: observ.NewTimer()}
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing generate request")
	}
	if req.SpecPath == "" {
		return result, fmt.Errorf("missing specification path")
	}

	ctx, span := trace.Begin(ctx, trace.ScopeRun, "generate")
	span.Attr("spec", req.SpecPath)
	defer span.End("")
	r := &run{
		ctx:  ctx,
		sink: req.Progress,
		res:  &result,
	}
	if err := r.generate(req); err != nil {
		return result, err
	}
	r.emit(StageWrite, StatusDone, nil)
	return result, nil
}

func (r *run) generate(req *GenerateRequest) error {
	res := r.res
	var id source.FileID
	if err := r.stage(StageParse, "load", func() (err error) {
		id, err = parser.LoadFile(res.FileSet, req.SpecPath)
		return err
	}); err != nil {
		return err
	}

	key := generateKey(req, res.FileSet.Get(id).Content)
	if req.MIR == nil && r.fromCache(req, key) {
		return r.stage(StageWrite, "write", func() error { return r.write(req) })
	}

	if err := r.stage(StageParse, "parse", func() (err error) {
		res.Spec, err = parser.ParseLoaded(res.FileSet, id)
		return err
	}); err != nil {
		return err
	}
	s := res.Spec
	s.Path = req.SpecPath
	for _, m := range s.Modules {
		r.modules = append(r.modules, m.Name)
		r.emitModule(m.Name, StageParse, StatusQueued, nil)
	}

	noStd := boolOr(req.NoStd, s.Main.NoStdOr())
	separate := boolOr(req.SeparateFiles, s.Main.SeparateFilesOr())
	if err := r.stage(StageValidate, "validate", func() (err error) {
		if err = sema.Validate(s); err != nil {
			return err
		}
		res.Dest, err = driver.ResolveOutput(s.Main, driver.OutputOptions{
			Dst:           req.Dst,
			Dir:           req.OutputDir,
			SeparateFiles: separate,
		})
		return err
	}); err != nil {
		return err
	}

	if err := r.stage(StagePlan, "plan", func() (err error) {
		res.Units, err = driver.Plan(r.ctx, s, driver.PlanOptions{
			Test:          req.Test,
			NoStd:         noStd,
			SeparateFiles: separate,
			FileStem:      res.Dest.FileStem(),
			Jobs:          req.Jobs,
			Runtime:       req.Runtime,
		})
		if err != nil || req.MIR == nil {
			return err
		}
		for _, u := range res.Units {
			if err := mir.DumpUnit(req.MIR, u); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(StageRender, "render", func() error {
		for _, u := range res.Units {
			files, err := golang.EmitUnit(u)
			if err != nil {
				return err
			}
			res.Files = append(res.Files, files...)
		}
		return nil
	}); err != nil {
		return err
	}

	if req.Cache != nil {
		payload := driver.NewDiskPayload(s.Main.OutputPath(), separate, res.Dest, res.Files)
		if err := req.Cache.Put(key, payload); err != nil {
			// cache failures never fail a run
			trace.Point(r.ctx, trace.ScopeRun, "cache_put_failed", err.Error())
		}
	}
	return r.stage(StageWrite, "write", func() error { return r.write(req) })
}

// fromCache restores rendered files for key. A hit is only taken when the
// cached output settings still resolve to the same destination.
func (r *run) fromCache(req *GenerateRequest, key driver.Digest) bool {
	if req.Cache == nil {
		return false
	}
	phase := r.res.Timer.Begin("cache")
	payload, ok, err := req.Cache.Get(key)
	if err != nil || !ok {
		phase.End("miss")
		return false
	}
	output := payload.Output
	dest, err := driver.ResolveOutput(spec.Main{Output: &output}, driver.OutputOptions{
		Dst:           req.Dst,
		Dir:           req.OutputDir,
		SeparateFiles: payload.SeparateFiles,
	})
	if err != nil || dest != payload.Dest {
		phase.End("stale")
		return false
	}
	phase.End("hit")
	r.res.CacheHit = true
	r.res.Dest = dest
	r.res.Files = payload.GoFiles()
	return true
}

func (r *run) write(req *GenerateRequest) error {
	w := driver.Writer{Dest: r.res.Dest, Update: req.Update, Stdout: req.Stdout}
	written, err := w.Write(r.res.Files)
	r.res.Written = written
	return err
}

func generateKey(req *GenerateRequest, content []byte) driver.Digest {
	return driver.CacheKey(
		[]byte(version.Version),
		[]byte(req.SpecPath),
		content,
		[]byte(req.Dst),
		[]byte(req.OutputDir),
		[]byte(strconv.FormatBool(req.Test)),
		[]byte(optString(req.NoStd)),
		[]byte(optString(req.SeparateFiles)),
		[]byte(req.Runtime),
	)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func optString(p *bool) string {
	if p == nil {
		return "unset"
	}
	return strconv.FormatBool(*p)
}
