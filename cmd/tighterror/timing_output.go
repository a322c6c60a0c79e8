package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/buildpipeline"
)

type timingsPayload struct {
	Stages map[string]float64 `json:"stages_ms"`
	Phases any                `json:"phases"`
}

// printTimings writes stage timings to stderr when --timings is set.
func printTimings(cmd *cobra.Command, res buildpipeline.GenerateResult) error {
	format, err := cmd.Root().PersistentFlags().GetString("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	out := cmd.ErrOrStderr()
	switch format {
	case "":
		return nil
	case "text":
		printStageTimings(out, res.Timings)
		if res.Timer != nil {
			fmt.Fprint(out, res.Timer.Summary())
		}
		return nil
	case "json":
		payload := timingsPayload{Stages: make(map[string]float64)}
		for _, stage := range buildpipeline.Stages {
			if res.Timings.Has(stage) {
				payload.Stages[string(stage)] = toMillis(res.Timings.Duration(stage))
			}
		}
		if res.Timer != nil {
			payload.Phases = res.Timer.Report()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return fmt.Errorf("unsupported timings format %q (must be text or json)", format)
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	for _, stage := range buildpipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-9s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	if front := timings.Sum(buildpipeline.StageParse, buildpipeline.StageValidate); front > 0 {
		fmt.Fprintf(out, "%-9s %.1f ms\n", "checked", toMillis(front))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
