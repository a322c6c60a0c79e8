package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tighterror/tighterror/internal/buildpipeline"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/mir"
	"github.com/tighterror/tighterror/internal/parser"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/trace"
)

func init() {
	f := rootCmd.Flags()
	f.StringP("spec", "s", "", "specification file (default tighterror.yaml, then tighterror.toml)")
	f.String("dst", "", "destination file (- for stdout)")
	f.StringP("output", "o", "", "destination path, file or directory (- for stdout)")
	f.Bool("lint", false, "check the specification and report all problems without generating")
	f.BoolP("test", "t", false, "generate the test file")
	f.Bool("separate-files", false, "write each module to its own file")
	f.BoolP("update", "u", false, "rewrite destination files only when their content changes")
	f.Bool("no-std", false, "generate code that imports nothing from the tighterror runtime")
	f.Bool("no-cache", false, "bypass the generation cache")
	f.String("diagnostics-format", "pretty", "diagnostics format (pretty|json)")
	f.String("path-mode", "auto", "diagnostic path display (auto|absolute|relative|basename)")
	f.String("emit-mir", "", "dump the planned units to file (- for stderr)")
	f.IntP("jobs", "j", 0, "modules planned in parallel (0 = GOMAXPROCS)")
	f.String("runtime", "", "import path of the runtime package (default "+mir.DefaultRuntimePath+")")
}

type generateOptions struct {
	specPath      string
	dst           string
	output        string
	lint          bool
	test          bool
	separateFiles *bool
	noStd         *bool
	update        bool
	noCache       bool
	diagFormat    string
	pathMode      string
	emitMIR       string
	jobs          int
	runtime       string
}

func readGenerateOptions(cmd *cobra.Command) (generateOptions, error) {
	var opts generateOptions
	f := cmd.Flags()
	var err error
	if opts.specPath, err = f.GetString("spec"); err != nil {
		return opts, err
	}
	if opts.dst, err = f.GetString("dst"); err != nil {
		return opts, err
	}
	if opts.output, err = f.GetString("output"); err != nil {
		return opts, err
	}
	if opts.lint, err = f.GetBool("lint"); err != nil {
		return opts, err
	}
	if opts.test, err = f.GetBool("test"); err != nil {
		return opts, err
	}
	if opts.update, err = f.GetBool("update"); err != nil {
		return opts, err
	}
	if opts.noCache, err = f.GetBool("no-cache"); err != nil {
		return opts, err
	}
	if opts.diagFormat, err = f.GetString("diagnostics-format"); err != nil {
		return opts, err
	}
	if opts.pathMode, err = f.GetString("path-mode"); err != nil {
		return opts, err
	}
	if opts.emitMIR, err = f.GetString("emit-mir"); err != nil {
		return opts, err
	}
	if opts.jobs, err = f.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.runtime, err = f.GetString("runtime"); err != nil {
		return opts, err
	}
	// unset flags leave the spec's main object in charge
	if f.Changed("separate-files") {
		v, _ := f.GetBool("separate-files")
		opts.separateFiles = &v
	}
	if f.Changed("no-std") {
		v, _ := f.GetBool("no-std")
		opts.noStd = &v
	}
	switch opts.diagFormat {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", opts.diagFormat)
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("--jobs must not be negative")
	}
	return opts, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := readGenerateOptions(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.specPath == "" {
		if opts.specPath, err = parser.Discover("."); err != nil {
			return reportDiagnostics(cmd, source.NewFileSet(), err, opts)
		}
	}
	if opts.lint {
		return runLint(cmd, opts)
	}

	req := &buildpipeline.GenerateRequest{
		SpecPath:      opts.specPath,
		Dst:           opts.dst,
		OutputDir:     opts.output,
		Test:          opts.test,
		NoStd:         opts.noStd,
		SeparateFiles: opts.separateFiles,
		Update:        opts.update,
		Jobs:          opts.jobs,
		Runtime:       opts.runtime,
		Stdout:        cmd.OutOrStdout(),
	}
	if !opts.noCache {
		req.Cache = openCache(cmd)
	}
	if opts.emitMIR != "" {
		w, closeMIR, err := openMIROutput(cmd, opts.emitMIR)
		if err != nil {
			return err
		}
		defer closeMIR()
		req.MIR = w
	}

	mode, err := uiModeFlag(cmd)
	if err != nil {
		return err
	}
	var res buildpipeline.GenerateResult
	if shouldUseTUI(mode) {
		res, err = runGenerateWithUI(cmd.Context(), filepath.Base(opts.specPath), req)
	} else {
		res, err = buildpipeline.Generate(cmd.Context(), req)
	}

	if timingErr := printTimings(cmd, res); timingErr != nil {
		return timingErr
	}
	if err != nil {
		return reportDiagnostics(cmd, res.FileSet, err, opts)
	}

	for _, w := range res.Written {
		if w.Path == "" {
			continue
		}
		statusf(cmd, statusOK, "%s %s", w.Status, w.Path)
	}
	if res.CacheHit {
		statusf(cmd, statusInfo, "restored from cache")
	}
	return nil
}

func runLint(cmd *cobra.Command, opts generateOptions) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	res, err := buildpipeline.Lint(cmd.Context(), opts.specPath, maxDiagnostics)
	if err != nil {
		return err
	}
	if err := renderBag(cmd, res.Bag, res.FileSet, opts); err != nil {
		return err
	}
	if !res.Clean() {
		return errReported
	}
	statusf(cmd, statusOK, "%s: no problems found", opts.specPath)
	return nil
}

// cacheApp names the cache directory under the user cache dir.
const cacheApp = "tighterror"

// openCache never fails a run: an unusable cache directory only disables
// caching.
func openCache(cmd *cobra.Command) *driver.DiskCache {
	cache, err := driver.OpenDiskCache(cacheApp)
	if err != nil {
		trace.Point(cmd.Context(), trace.ScopeRun, "cache_disabled", err.Error())
		return nil
	}
	return cache
}

func openMIROutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "-" {
		return cmd.ErrOrStderr(), func() {}, nil
	}
	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MIR dump: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "emit-mir: close error: %v\n", err)
		}
	}, nil
}
