package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tighterror/tighterror/internal/backend/golang"
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/driver"
	"github.com/tighterror/tighterror/internal/spec"
)

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "errs.go")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fresh := filepath.Join(dir, "new.go")

	tests := []struct {
		name string
		main spec.Main
		opts driver.OutputOptions
		want driver.Destination
		code diag.Code
	}{
		{name: "unset", want: driver.Destination{Stdout: true}},
		{name: "spec stdout", main: spec.Main{Output: spec.String("-")}, want: driver.Destination{Stdout: true}},
		{name: "spec file", main: spec.Main{Output: spec.String(fresh)}, want: driver.Destination{File: fresh}},
		{name: "spec dir", main: spec.Main{Output: spec.String(dir)}, want: driver.Destination{Dir: dir}},
		{name: "dst wins", main: spec.Main{Output: spec.String(dir)}, opts: driver.OutputOptions{Dst: file}, want: driver.Destination{File: file}},
		{name: "dst stdout", main: spec.Main{Output: spec.String(dir)}, opts: driver.OutputOptions{Dst: "-"}, want: driver.Destination{Stdout: true}},
		{name: "output dir", opts: driver.OutputOptions{Dir: dir}, want: driver.Destination{Dir: dir}},
		{name: "output not dir", opts: driver.OutputOptions{Dir: file}, code: diag.OutputPathNotDirectory},
		{name: "separate needs dir", main: spec.Main{Output: spec.String(file)}, opts: driver.OutputOptions{SeparateFiles: true}, code: diag.OutputPathNotDirectory},
		{name: "separate stdout", opts: driver.OutputOptions{SeparateFiles: true}, want: driver.Destination{Stdout: true}},
		{name: "separate dir", main: spec.Main{Output: spec.String(dir)}, opts: driver.OutputOptions{SeparateFiles: true}, want: driver.Destination{Dir: dir, Separate: true}},
		{name: "exclusive", opts: driver.OutputOptions{Dst: file, Dir: dir}, code: diag.MutuallyExclusiveKeywords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := driver.ResolveOutput(tt.main, tt.opts)
			if tt.code != diag.UnknownCode {
				if diag.CodeOf(err) != tt.code {
					t.Fatalf("err = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveOutput: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDestinationPaths(t *testing.T) {
	main := golang.File{Name: "app_errors.go"}
	test := golang.File{Name: "app_errors_test.go", Test: true}

	d := driver.Destination{File: filepath.Join("out", "app_errors.go")}
	if d.FileStem() != "app_errors" {
		t.Fatalf("FileStem = %q", d.FileStem())
	}
	if got := d.PathFor(main); got != d.File {
		t.Fatalf("main path = %q", got)
	}
	if got := d.PathFor(test); got != filepath.Join("out", "app_errors_test.go") {
		t.Fatalf("test path = %q", got)
	}

	d = driver.Destination{Dir: "out"}
	if d.FileStem() != "" || d.PathFor(main) != filepath.Join("out", "app_errors.go") {
		t.Fatalf("dir destination: stem %q path %q", d.FileStem(), d.PathFor(main))
	}
	d = driver.Destination{Dir: "out", Separate: true}
	main.Unit, test.Unit = "app_errors", "app_errors"
	if got := d.PathFor(test); got != filepath.Join("out", "app_errors", "app_errors_test.go") {
		t.Fatalf("separate test path = %q", got)
	}
	if (driver.Destination{Stdout: true}).PathFor(main) != "" {
		t.Fatal("stdout has no path")
	}
}
