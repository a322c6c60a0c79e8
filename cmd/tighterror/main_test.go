package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/tighterror/tighterror/internal/backend/golang"
)

// execute runs the root command with args after resetting every flag, so
// tests do not leak flag values into each other.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append(rootCmd.Commands(), rootCmd) {
		c.Flags().VisitAll(reset)
	}
	rootCmd.PersistentFlags().VisitAll(reset)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tighterror.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateCommand(t *testing.T) {
	spec := writeSpec(t, "errors: [BadFile, Timeout]\n")
	dst := filepath.Join(t.TempDir(), "errs.go")

	_, stderr, err := execute(t, "--spec", spec, "--dst", dst, "--no-cache", "--test", "--color", "off")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stderr)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(golang.Header)) {
		t.Fatalf("unexpected output:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "errs_test.go")); err != nil {
		t.Fatalf("test file: %v", err)
	}
	if !strings.Contains(stderr, "written "+dst) {
		t.Fatalf("status = %q", stderr)
	}

	_, stderr, err = execute(t, "--spec", spec, "--dst", dst, "--no-cache", "-u", "--quiet")
	if err != nil || stderr != "" {
		t.Fatalf("quiet update: %v %q", err, stderr)
	}
}

func TestCacheAndClean(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	spec := writeSpec(t, "errors: [BadFile]\n")
	dst := filepath.Join(t.TempDir(), "errs.go")

	if _, stderr, err := execute(t, "-s", spec, "--dst", dst, "--color", "off"); err != nil || strings.Contains(stderr, "restored") {
		t.Fatalf("first run: %v %q", err, stderr)
	}
	_, stderr, err := execute(t, "-s", spec, "--dst", dst, "--color", "off")
	if err != nil || !strings.Contains(stderr, "restored from cache") {
		t.Fatalf("second run: %v %q", err, stderr)
	}

	if _, stderr, err = execute(t, "clean", "--color", "off"); err != nil || !strings.Contains(stderr, "removed cache entries") {
		t.Fatalf("clean: %v %q", err, stderr)
	}
	if _, stderr, err = execute(t, "-s", spec, "--dst", dst, "--color", "off"); err != nil || strings.Contains(stderr, "restored") {
		t.Fatalf("run after clean: %v %q", err, stderr)
	}
}

func TestGenerateToStdout(t *testing.T) {
	spec := writeSpec(t, "errors: [BadFile]\n")
	stdout, _, err := execute(t, "-s", spec, "--no-cache", "--no-std")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, golang.Header) || strings.Contains(stdout, `import "github.com/tighterror/tighterror"`) {
		t.Fatalf("stdout:\n%s", stdout)
	}
}

func TestGenerateRuntimeImport(t *testing.T) {
	spec := writeSpec(t, "errors: [BadFile]\n")
	stdout, _, err := execute(t, "-s", spec, "--no-cache")
	if err != nil || !strings.Contains(stdout, `import "github.com/tighterror/tighterror"`) {
		t.Fatalf("default runtime: %v\n%s", err, stdout)
	}
	stdout, _, err = execute(t, "-s", spec, "--no-cache", "--runtime", "example.com/fork/tighterror")
	if err != nil || !strings.Contains(stdout, `import "example.com/fork/tighterror"`) {
		t.Fatalf("--runtime: %v\n%s", err, stdout)
	}
}

func TestGenerateReportsDiagnostics(t *testing.T) {
	spec := writeSpec(t, "errors: [BadFile, BadFile]\n")
	_, stderr, err := execute(t, "-s", spec, "--no-cache", "--color", "off", "--path-mode", "basename")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "tighterror.yaml:1:") || !strings.Contains(stderr, "PRS1018") {
		t.Fatalf("stderr:\n%s", stderr)
	}

	_, stderr, err = execute(t, "-s", spec, "--no-cache", "--diagnostics-format", "json")
	if !errors.Is(err, errReported) || !strings.Contains(stderr, `"kind": "NON_UNIQUE_NAME"`) {
		t.Fatalf("json: %v\n%s", err, stderr)
	}
}

func TestLintCommand(t *testing.T) {
	spec := writeSpec(t, "categories:\n  - name: bad_cat\n    errors: [okName]\n")
	_, stderr, err := execute(t, "-s", spec, "--lint", "--color", "off")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if strings.Count(stderr, "ERROR") != 2 {
		t.Fatalf("stderr:\n%s", stderr)
	}

	clean := writeSpec(t, "errors: [Good]\n")
	if _, stderr, err = execute(t, "-s", clean, "--lint", "--color", "off"); err != nil || !strings.Contains(stderr, "no problems found") {
		t.Fatalf("clean lint: %v %q", err, stderr)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	if _, _, err := execute(t, "init", dir, "--format", "toml"); err != nil {
		t.Fatal(err)
	}
	spec := filepath.Join(dir, "tighterror.toml")
	if _, err := os.Stat(spec); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "init", dir); err == nil {
		t.Fatal("init overwrote an existing spec")
	}
	stdout, _, err := execute(t, "-s", spec, "--no-cache", "--dst", "-")
	if err != nil || !strings.Contains(stdout, "ReadFailed") {
		t.Fatalf("generate from starter: %v", err)
	}
}

func TestExplainCommand(t *testing.T) {
	stdout, _, err := execute(t, "explain", "non_unique_name")
	if err != nil || !strings.HasPrefix(stdout, "PRS1018 NON_UNIQUE_NAME") {
		t.Fatalf("explain: %v %q", err, stdout)
	}
	stdout, _, err = execute(t, "explain")
	if err != nil || !strings.Contains(stdout, "COD2001") || strings.Contains(stdout, "E0000") {
		t.Fatalf("list: %v\n%s", err, stdout)
	}
	if _, _, err = execute(t, "explain", "XYZ"); err == nil {
		t.Fatal("unknown code accepted")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full", "--color", "off")
	if err != nil || !strings.Contains(stdout, `"tool": "tighterror"`) || !strings.Contains(stdout, `"git_commit": "unknown"`) {
		t.Fatalf("version: %v\n%s", err, stdout)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeOff, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		if got, err := readUIMode(in); err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Fatal("invalid mode accepted")
	}
}
