package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached generation results",
	Long: `Remove every entry of the generation cache kept under the user cache
directory ($XDG_CACHE_HOME/tighterror on Linux). The next run renders from
scratch.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean cache %s: %w", cache.Dir(), err)
	}
	statusf(cmd, statusOK, "removed cache entries in %s", cache.Dir())
	return nil
}
