package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/parser"
	"github.com/tighterror/tighterror/internal/starter"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter specification",
	Long: `Write a starter error specification (tighterror.yaml by default) into
dir, or into the current directory when dir is omitted. A missing dir is
created. An existing specification is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("format", "yaml", "specification format (yaml|toml)")
}

func runInit(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	content, err := starter.Spec(format)
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// either default name blocks init: generation would pick the old one
	for _, name := range parser.DefaultSpecFiles {
		existing := filepath.Join(target, name)
		if _, err := os.Stat(existing); err == nil {
			return fmt.Errorf("specification already exists: %s", existing)
		}
	}

	path := filepath.Join(target, starter.FileName(format))
	if err := os.WriteFile(path, content, 0o644); err != nil { // #nosec G306 -- spec files are meant to be shared
		return fmt.Errorf("failed to write specification: %w", err)
	}
	statusf(cmd, statusOK, "created %s", path)
	return nil
}
