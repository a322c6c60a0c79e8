package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b") {
		t.Error("Version must stay plain; it feeds the cache key")
	}
}

func TestColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		version string
		enabled bool
		colored bool
		suffix  string
	}{
		{"0.1.0-dev", true, true, "-dev"},
		{"1.2.3+build.7", true, true, "+build.7"},
		{"1.2.3", false, false, ""},
		{"dev", true, false, ""},
	}
	for _, tt := range tests {
		Version = tt.version
		got := Colored(tt.enabled)
		if got := strings.Contains(got, "\x1b["); got != tt.colored {
			t.Errorf("%s: colored = %t", tt.version, got)
		}
		if !tt.colored && got != tt.version {
			t.Errorf("%s: Colored = %q", tt.version, got)
		}
		if !strings.HasSuffix(got, tt.suffix) {
			t.Errorf("%s: suffix lost in %q", tt.version, got)
		}
	}
}
