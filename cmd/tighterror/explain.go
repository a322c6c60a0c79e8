package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/diag"
)

var explainCmd = &cobra.Command{
	Use:   "explain [CODE]",
	Short: "Describe a diagnostic code",
	Long: `Describe a diagnostic code given by ID (PRS1018) or name
(NON_UNIQUE_NAME). Without a code every known diagnostic is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			listCodes(out)
			return nil
		}
		code, ok := diag.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown diagnostic code %q (run `tighterror explain` for the list)", args[0])
		}
		fmt.Fprintf(out, "%s %s\n  %s\n", code.ID(), code.Name(), code.Title())
		return nil
	},
}

func listCodes(out io.Writer) {
	for _, code := range diag.Codes() {
		if code == diag.UnknownCode {
			continue
		}
		fmt.Fprintf(out, "%-8s %-28s %s\n", code.ID(), code.Name(), code.Title())
	}
}
