package buildpipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/trace"
)

// run carries the state of one Generate call.
type run struct {
	ctx     context.Context
	sink    ProgressSink
	res     *GenerateResult
	modules []string
}

// stage runs fn as one step of stage: progress events, a trace span, a
// timer phase and the stage duration.
func (r *run) stage(stage Stage, phase string, fn func() error) error {
	r.emit(stage, StatusWorking, nil)
	_, span := trace.Begin(r.ctx, trace.ScopeStage, phase)
	timed := r.res.Timer.Begin(phase)
	start := time.Now()

	err := fn()

	elapsed := time.Since(start)
	r.res.Timings.Add(stage, elapsed)
	if err != nil {
		timed.End("error")
		span.End("error")
		r.emitElapsed(stage, StatusError, err, elapsed)
		return err
	}
	timed.End(r.note(stage))
	span.End("")
	return nil
}

func (r *run) note(stage Stage) string {
	switch stage {
	case StagePlan:
		return plural(len(r.res.Units), "unit")
	case StageRender:
		return plural(len(r.res.Files), "file")
	case StageWrite:
		changed := 0
		for _, w := range r.res.Written {
			if w.Status != driver.Unchanged {
				changed++
			}
		}
		return plural(changed, "file") + " changed"
	}
	return ""
}

func plural(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}
	return strconv.Itoa(n) + " " + what + "s"
}

func (r *run) emit(stage Stage, status Status, err error) {
	r.emitElapsed(stage, status, err, 0)
}

func (r *run) emitElapsed(stage Stage, status Status, err error, elapsed time.Duration) {
	if r.sink == nil {
		return
	}
	r.sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, m := range r.modules {
		r.sink.OnEvent(Event{Module: m, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

func (r *run) emitModule(module string, stage Stage, status Status, err error) {
	if r.sink == nil {
		return
	}
	r.sink.OnEvent(Event{Module: module, Stage: stage, Status: status, Err: err})
}
