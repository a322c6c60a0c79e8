// Package observ records wall-clock timings of generation phases.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step. End it exactly once; later calls are ignored.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	ended bool
	now   func() time.Time
}

// End stops the phase and attaches note, e.g. "hit" or "3 files".
func (p *Phase) End(note string) {
	if p == nil || p.ended {
		return
	}
	p.ended = true
	p.Dur = p.now().Sub(p.Start)
	p.Note = note
}

// Timer keeps phases in the order they began. The pipeline drives it from
// one goroutine.
type Timer struct {
	phases []*Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

func (t *Timer) Begin(name string) *Phase {
	p := &Phase{Name: name, Start: t.now(), now: t.now}
	t.phases = append(t.phases, p)
	return p
}

func (t *Timer) Len() int {
	if t == nil {
		return 0
	}
	return len(t.phases)
}

// PhaseReport is one row of a Report. Phases still running report zero.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Share      float64 `json:"share"`
	Note       string  `json:"note,omitempty"`
}

// Report is what --timings=json prints.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t.Len() == 0 {
		return Report{}
	}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	r := Report{TotalMS: millis(total), Phases: make([]PhaseReport, len(t.phases))}
	for i, p := range t.phases {
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
		if total > 0 {
			r.Phases[i].Share = float64(p.Dur) / float64(total)
		}
	}
	return r
}

// Summary renders the report as a table:
//
//	timings:
//	  load      0.41 ms   12%
//	  cache     0.02 ms    1%  hit
//	  total     3.40 ms
func (t *Timer) Summary() string {
	r := t.Report()
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(p.Name))
	}

	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-*s %8.2f ms %4.0f%%", width, p.Name, p.DurationMS, p.Share*100)
		if p.Note != "" {
			sb.WriteString("  " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-*s %8.2f ms\n", width, "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
