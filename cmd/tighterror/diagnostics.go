package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/diagfmt"
	"github.com/tighterror/tighterror/internal/source"
)

type statusKind uint8

const (
	statusOK statusKind = iota
	statusInfo
	statusFail
)

// useColor resolves --color for output going to f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f)
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}

// statusf prints one status line on stderr unless --quiet.
func statusf(cmd *cobra.Command, kind statusKind, format string, args ...any) {
	if quiet(cmd) && kind != statusFail {
		return
	}
	var c *color.Color
	switch kind {
	case statusOK:
		c = color.New(color.FgGreen)
	case statusFail:
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if useColor(cmd, os.Stderr) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprintln(cmd.ErrOrStderr(), c.Sprintf(format, args...))
}

func printError(cmd *cobra.Command, err error) {
	statusf(cmd, statusFail, "error: %v", err)
}

// reportDiagnostics renders err as a diagnostic when it carries one and
// returns errReported, or returns err unchanged.
func reportDiagnostics(cmd *cobra.Command, fs *source.FileSet, err error, opts generateOptions) error {
	var de *diag.Error
	if !errors.As(err, &de) {
		return err
	}
	bag := diag.NewBag(1)
	bag.Add(de.Diag)
	if renderErr := renderBag(cmd, bag, fs, opts); renderErr != nil {
		return renderErr
	}
	return errReported
}

func renderBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, opts generateOptions) error {
	pathMode, err := diagfmt.ParsePathMode(opts.pathMode)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	if opts.diagFormat == "json" {
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   1,
		PathMode:  pathMode,
		ShowNotes: true,
	})
	if n := bag.Dropped(); n > 0 {
		statusf(cmd, statusInfo, "%d more diagnostics not shown (see --max-diagnostics)", n)
	}
	return nil
}
