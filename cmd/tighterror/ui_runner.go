package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tighterror/tighterror/internal/buildpipeline"
	"github.com/tighterror/tighterror/internal/ui"
)

type generateOutcome struct {
	result buildpipeline.GenerateResult
	err    error
}

func runGenerateWithUI(ctx context.Context, title string, req *buildpipeline.GenerateRequest) (buildpipeline.GenerateResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Generate(ctx, &reqCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	// modules are discovered from parse events
	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
