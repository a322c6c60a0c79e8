// Package ui draws generation progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tighterror/tighterror/internal/buildpipeline"
)

// stageRow is one line of the stage checklist. An empty status means the
// stage has not started yet.
type stageRow struct {
	stage   buildpipeline.Stage
	status  buildpipeline.Status
	elapsed time.Duration
}

type moduleRow struct {
	name   string
	stage  buildpipeline.Stage
	status buildpipeline.Status
}

type styles struct {
	title, dim, ok, fail, busy lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		busy:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	st      styles
	stages  []stageRow
	modules []moduleRow
	index   map[string]int
	err     error
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by events. The model
// quits once events is closed. Modules not listed up front are added when
// their first event arrives.
func NewProgressModel(title string, modules []string, events <-chan buildpipeline.Event) tea.Model {
	st := newStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(st.busy))

	stages := make([]stageRow, len(buildpipeline.Stages))
	for i, s := range buildpipeline.Stages {
		stages[i].stage = s
	}
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		st:      st,
		stages:  stages,
		index:   make(map[string]int, len(modules)),
		width:   80,
	}
	for _, name := range modules {
		m.module(name)
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		m.bar.Width = min(m.width-4, 60)
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) module(name string) *moduleRow {
	idx, ok := m.index[name]
	if !ok {
		idx = len(m.modules)
		m.modules = append(m.modules, moduleRow{name: name, status: buildpipeline.StatusQueued})
		m.index[name] = idx
	}
	return &m.modules[idx]
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.Module != "" {
		row := m.module(ev.Module)
		row.stage, row.status = ev.Stage, ev.Status
		return nil
	}
	for i := range m.stages {
		row := &m.stages[i]
		if row.stage != ev.Stage {
			continue
		}
		row.status = ev.Status
		if ev.Elapsed > 0 {
			row.elapsed = ev.Elapsed
		}
	}
	// write/done closes the run; earlier stages finish implicitly when the
	// next one starts
	if ev.Status == buildpipeline.StatusWorking || ev.Status == buildpipeline.StatusDone {
		for i := range m.stages {
			if m.stages[i].stage == ev.Stage {
				break
			}
			if m.stages[i].status != buildpipeline.StatusError {
				m.stages[i].status = buildpipeline.StatusDone
			}
		}
	}
	if ev.Status == buildpipeline.StatusError && ev.Err != nil {
		m.err = ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

// percent counts finished stages as whole steps and the running one as half.
func (m *progressModel) percent() float64 {
	var steps float64
	for _, row := range m.stages {
		switch row.status {
		case buildpipeline.StatusDone, buildpipeline.StatusError:
			steps++
		case buildpipeline.StatusWorking:
			steps += 0.5
		}
	}
	return steps / float64(len(m.stages))
}

func (m *progressModel) mark(status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusDone:
		return m.st.ok.Render("✓")
	case buildpipeline.StatusError:
		return m.st.fail.Render("✗")
	case buildpipeline.StatusWorking:
		if m.done {
			return m.st.busy.Render("•")
		}
		return m.spinner.View()
	}
	return m.st.dim.Render("·")
}

func (m *progressModel) View() string {
	var b strings.Builder

	head := m.st.title.Render(truncate(m.title, m.width-2))
	switch {
	case m.err != nil:
		head = m.st.fail.Render("✗ ") + head
	case m.done:
		head = m.st.ok.Render("✓ ") + head
	default:
		head = m.spinner.View() + " " + head
	}
	b.WriteString(head)
	b.WriteString("\n")

	for _, row := range m.stages {
		fmt.Fprintf(&b, "  %s %-9s", m.mark(row.status), row.stage)
		if row.elapsed > 0 {
			b.WriteString(m.st.dim.Render(formatElapsed(row.elapsed)))
		}
		b.WriteString("\n")
	}

	if len(m.modules) > 0 {
		nameWidth := 0
		for _, mod := range m.modules {
			nameWidth = max(nameWidth, runewidth.StringWidth(mod.name))
		}
		nameWidth = min(nameWidth, max(m.width-20, 8))
		b.WriteString("\n")
		for _, mod := range m.modules {
			name := runewidth.FillRight(truncate(mod.name, nameWidth), nameWidth)
			fmt.Fprintf(&b, "  %s %s %s\n", m.mark(mod.status), name, m.st.dim.Render(moduleLabel(mod)))
		}
	}

	if m.err != nil {
		b.WriteString("\n  ")
		b.WriteString(m.st.fail.Render(truncate(m.err.Error(), m.width-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	if m.done && m.err == nil {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func moduleLabel(mod moduleRow) string {
	switch mod.status {
	case buildpipeline.StatusQueued, buildpipeline.StatusDone, buildpipeline.StatusError:
		return string(mod.status)
	}
	switch mod.stage {
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageValidate:
		return "validating"
	case buildpipeline.StagePlan:
		return "planning"
	case buildpipeline.StageRender:
		return "rendering"
	case buildpipeline.StageWrite:
		return "writing"
	}
	return string(mod.stage)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	}
	return d.Round(time.Millisecond).String()
}

func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
