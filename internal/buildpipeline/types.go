package buildpipeline

import (
	"slices"
	"time"
)

// Stage is one step of Generate. Every run walks them in the order of Stages;
// a cache hit skips straight from parse to write.
type Stage string

const (
	StageParse    Stage = "parse"    // load and decode the spec file
	StageValidate Stage = "validate" // naming and structure rules, output path
	StagePlan     Stage = "plan"     // bit layout, symbols, MIR
	StageRender   Stage = "render"   // Go source per unit
	StageWrite    Stage = "write"    // files or stdout
)

var Stages = []Stage{StageParse, StageValidate, StagePlan, StageRender, StageWrite}

// Status is where a stage or module stands.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of the whole run, or of one spec module when
// Module is set. Elapsed is filled on the event that ends a stage.
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives events on the goroutine that runs Generate.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings is the time spent per stage. The zero value is empty.
type Timings struct {
	dur  [5]time.Duration
	seen [5]bool
}

func stageIndex(stage Stage) int {
	return slices.Index(Stages, stage)
}

// Add accumulates dur into stage; unknown stages are ignored.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if i := stageIndex(stage); t != nil && i >= 0 {
		t.dur[i] += dur
		t.seen[i] = true
	}
}

// Has reports whether stage ran, even if it took no measurable time.
func (t Timings) Has(stage Stage) bool {
	i := stageIndex(stage)
	return i >= 0 && t.seen[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := stageIndex(stage); i >= 0 {
		return t.dur[i]
	}
	return 0
}

func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
