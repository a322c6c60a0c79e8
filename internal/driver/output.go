package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tighterror/tighterror/internal/backend/golang"
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

// Destination is where rendered files go. Exactly one of Stdout, Dir and
// File is set.
type Destination struct {
	Stdout bool
	Dir    string
	File   string
	// Separate puts every unit in its own package directory under Dir.
	Separate bool
}

// OutputOptions are the command line overrides of the spec's main.output.
type OutputOptions struct {
	// Dst names an output file.
	Dst string
	// Dir names an output directory.
	Dir           string
	SeparateFiles bool
}

// ResolveOutput merges main.output with the command line. Flags win.
func ResolveOutput(m spec.Main, o OutputOptions) (Destination, error) {
	if o.Dst != "" && o.Dir != "" {
		return Destination{}, diag.Errorf(diag.MutuallyExclusiveKeywords, source.NoSpan,
			"--dst and --output are mutually exclusive")
	}
	path := m.OutputPath()
	switch {
	case o.Dst != "":
		path = o.Dst
	case o.Dir != "":
		path = o.Dir
	}
	if path == spec.StdoutPath {
		return Destination{Stdout: true}, nil
	}

	st, err := os.Stat(path)
	isDir := err == nil && st.IsDir()
	if o.SeparateFiles || o.Dir != "" {
		if !isDir {
			what := "output path"
			if o.SeparateFiles {
				what = "output path in separate files mode"
			}
			return Destination{}, diag.Errorf(diag.OutputPathNotDirectory, source.NoSpan,
				"%s must be an existing directory: %s", what, path)
		}
		return Destination{Dir: path, Separate: o.SeparateFiles}, nil
	}
	if isDir {
		return Destination{Dir: path}, nil
	}
	return Destination{File: path}, nil
}

// FileStem is the unit name implied by a file destination.
func (d Destination) FileStem() string {
	if d.File == "" {
		return ""
	}
	base := filepath.Base(d.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PathFor returns the path f is written to; empty for stdout. In separate
// mode a unit named a lands in <dir>/a/a.go, since Go allows one package
// per directory.
func (d Destination) PathFor(f golang.File) string {
	switch {
	case d.Stdout:
		return ""
	case d.File != "" && !f.Test:
		return d.File
	case d.File != "":
		return filepath.Join(filepath.Dir(d.File), f.Name)
	case d.Separate && f.Unit != "":
		return filepath.Join(d.Dir, f.Unit, f.Name)
	}
	return filepath.Join(d.Dir, f.Name)
}

func (d Destination) String() string {
	switch {
	case d.Stdout:
		return spec.StdoutPath
	case d.File != "":
		return d.File
	}
	return d.Dir + string(filepath.Separator)
}
