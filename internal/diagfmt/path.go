package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

// autoPathLimit is the longest absolute path PathModeAuto prints in full.
const autoPathLimit = 48

func formatPath(path string, mode PathMode, base string) string {
	if path == "" {
		return "-"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	case PathModeRelative:
		path = relativePath(path, base)
	case PathModeBasename:
		path = filepath.Base(path)
	case PathModeAuto:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			path = filepath.Base(path)
		}
	}
	return filepath.ToSlash(path)
}

func relativePath(path, base string) string {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
