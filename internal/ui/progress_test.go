package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tighterror/tighterror/internal/buildpipeline"
)

func feed(m *progressModel, evs ...buildpipeline.Event) {
	for _, ev := range evs {
		m.Update(eventMsg(ev))
	}
}

func TestProgressModelStages(t *testing.T) {
	m := NewProgressModel("tighterror.yaml", []string{"General"}, nil).(*progressModel)
	feed(m,
		buildpipeline.Event{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
		buildpipeline.Event{Module: "Io", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusQueued},
		buildpipeline.Event{Stage: buildpipeline.StagePlan, Status: buildpipeline.StatusWorking},
		buildpipeline.Event{Module: "General", Stage: buildpipeline.StagePlan, Status: buildpipeline.StatusWorking},
	)

	want := []buildpipeline.Status{
		buildpipeline.StatusDone,
		buildpipeline.StatusDone,
		buildpipeline.StatusWorking,
		"",
		"",
	}
	for i, row := range m.stages {
		if row.status != want[i] {
			t.Errorf("stage %s = %q, want %q", row.stage, row.status, want[i])
		}
	}
	if got := m.percent(); got != 0.5 {
		t.Errorf("percent = %v, want 0.5", got)
	}
	if len(m.modules) != 2 || m.modules[1].name != "Io" {
		t.Fatalf("modules = %+v", m.modules)
	}
	if got := moduleLabel(m.modules[0]); got != "planning" {
		t.Errorf("General label = %q", got)
	}

	feed(m, buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone, Elapsed: 1500 * time.Microsecond})
	m.Update(doneMsg{})
	view := m.View()
	for _, line := range []string{"✓ tighterror.yaml", "✓ plan", "✓ write    1.5ms", "Io"} {
		if !strings.Contains(view, line) {
			t.Errorf("view lacks %q:\n%s", line, view)
		}
	}
}

func TestProgressModelError(t *testing.T) {
	m := NewProgressModel("spec", nil, nil).(*progressModel)
	feed(m,
		buildpipeline.Event{Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusWorking},
		buildpipeline.Event{Stage: buildpipeline.StageValidate, Status: buildpipeline.StatusError, Err: errors.New("bad name")},
	)
	m.Update(doneMsg{})
	view := m.View()
	if !strings.Contains(view, "✗ spec") || !strings.Contains(view, "✗ validate") || !strings.Contains(view, "bad name") {
		t.Fatalf("view =\n%s", view)
	}
	if strings.Contains(view, "\n\n  ·") {
		t.Fatal("module section rendered without modules")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"module_name", 8, "modul..."},
		{"abc", 8, "abc"},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
