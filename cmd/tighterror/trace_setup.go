package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/trace"
)

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()

	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := pf.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	if traceOutput == "" && level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if traceOutput == "" {
		traceOutput = "-"
	}
	// --trace alone means stage spans
	if level == trace.LevelOff {
		level = trace.LevelStage
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	if format == trace.FormatAuto {
		format = trace.FormatForPath(traceOutput)
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		Path:     traceOutput,
		RingSize: ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	stopHeartbeat := trace.StartHeartbeat(ctx, heartbeatInterval)

	return func() {
		stopHeartbeat()
		// ring events stay in memory until the command ends
		if ring := trace.Ring(tracer); ring != nil {
			dumpRing(cmd, ring, traceOutput, format, mode == trace.ModeBoth && level != trace.LevelError)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// dumpRing writes the kept events as NDJSON when asked for it and as text
// otherwise. In both mode the stream already owns path, so the ring goes
// to stderr.
func dumpRing(cmd *cobra.Command, ring *trace.RingTracer, path string, format trace.Format, both bool) {
	if n := ring.Dropped(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: %d older events dropped\n", n)
	}
	if path == "-" || both {
		if err := ring.Dump(cmd.ErrOrStderr(), format); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
		}
		return
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		return
	}
	defer f.Close()
	if err := ring.Dump(f, format); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
