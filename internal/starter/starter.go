// Package starter holds the specification files written by `tighterror init`.
package starter

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed templates/*
var templates embed.FS

// Formats lists the supported starter formats, default first.
var Formats = []string{"yaml", "toml"}

// FileName returns the conventional spec file name for format.
func FileName(format string) string {
	return "tighterror." + normalize(format)
}

// Spec returns the starter specification in the given format.
func Spec(format string) ([]byte, error) {
	format = normalize(format)
	data, err := fs.ReadFile(templates, "templates/"+FileName(format))
	if err != nil {
		return nil, fmt.Errorf("unsupported starter format %q (expected: %s)", format, strings.Join(Formats, "|"))
	}
	return data, nil
}

func normalize(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "yml" {
		return "yaml"
	}
	return format
}
