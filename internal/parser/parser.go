// Package parser reads YAML and TOML error specifications into spec.Spec.
//
// Both front-ends lower the markup into a small ordered node tree and share
// one reader, so keyword handling and diagnostics are identical for the two
// formats. Naming rules are left to internal/sema.
package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
	"github.com/tighterror/tighterror/internal/spec"
)

// DefaultSpecFiles are probed in order when no spec path is given.
var DefaultSpecFiles = []string{"tighterror.yaml", "tighterror.toml"}

type parseFunc func(*source.FileSet, source.FileID) (*spec.Spec, error)

func formatFor(path string) (parseFunc, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML, true
	case ".toml":
		return parseTOML, true
	}
	return nil, false
}

// ParseFile loads path into fset and parses it by extension.
func ParseFile(fset *source.FileSet, path string) (*spec.Spec, error) {
	id, err := LoadFile(fset, path)
	if err != nil {
		return nil, err
	}
	s, err := ParseLoaded(fset, id)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

// LoadFile checks the extension of path and reads it into fset.
func LoadFile(fset *source.FileSet, path string) (source.FileID, error) {
	if _, ok := formatFor(path); !ok {
		if filepath.Ext(path) == "" {
			return 0, diag.Errorf(diag.BadSpecFileExtension, source.NoSpan,
				"specification file name must have a markup language extension: %s", path)
		}
		return 0, diag.Errorf(diag.BadSpecFileExtension, source.NoSpan,
			"specification file extension %q isn't supported: %s", filepath.Ext(path), path)
	}
	id, err := fset.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, diag.Errorf(diag.SpecFileNotFound, source.NoSpan, "specification file not found: %s", path)
		}
		return 0, diag.Errorf(diag.FailedToOpenSpecFile, source.NoSpan, "failed to open specification file %s: %v", path, err)
	}
	return id, nil
}

// ParseLoaded parses a file already in fset, choosing the format by its path.
func ParseLoaded(fset *source.FileSet, id source.FileID) (*spec.Spec, error) {
	f := fset.Get(id)
	parse, ok := formatFor(f.Path)
	if !ok {
		return nil, diag.Errorf(diag.BadSpecFileExtension, source.NoSpan,
			"specification file extension %q isn't supported: %s", filepath.Ext(f.Path), f.Path)
	}
	s, err := parse(fset, id)
	if err != nil {
		return nil, err
	}
	s.Path = f.Path
	return s, nil
}

// ParseBytes parses in-memory content; name selects the format by extension.
func ParseBytes(fset *source.FileSet, name string, src []byte) (*spec.Spec, error) {
	parse, ok := formatFor(name)
	if !ok {
		return nil, diag.Errorf(diag.BadSpecFileExtension, source.NoSpan,
			"specification file extension %q isn't supported: %s", filepath.Ext(name), name)
	}
	return parse(fset, fset.AddVirtual(name, src))
}

// ParseYAML parses src as a YAML specification.
func ParseYAML(fset *source.FileSet, name string, src []byte) (*spec.Spec, error) {
	return parseYAML(fset, fset.AddVirtual(name, src))
}

// ParseTOML parses src as a TOML specification.
func ParseTOML(fset *source.FileSet, name string, src []byte) (*spec.Spec, error) {
	return parseTOML(fset, fset.AddVirtual(name, src))
}

// Discover returns the first of DefaultSpecFiles present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultSpecFiles {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", diag.Errorf(diag.SpecFileNotFound, source.NoSpan,
		"specification file not found: tried %s", strings.Join(DefaultSpecFiles, ", "))
}

func safeUint32(v int) (uint32, error) {
	return safecast.Conv[uint32](v)
}
