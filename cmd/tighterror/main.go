package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tighterror/tighterror/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tighterror",
	Short: "Generate compact error kinds from a specification",
	Long: `tighterror reads an error specification (tighterror.yaml or
tighterror.toml) and generates Go code implementing packed error kinds,
categories and the error type wrapping them.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("reported")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.String("timings", "", "show timing information (text|json)")
	pf.Lookup("timings").NoOptDefVal = "text"
	pf.String("ui", "off", "progress UI (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|stage|module|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(rootCmd, err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
