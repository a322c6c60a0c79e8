package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
)

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/specs/tighterror.yaml", []byte("errors: [bad_name]\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.BadIdentifierCharacters, source.Span{File: fileID, Start: 9, End: 17}, "bad error name"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/specs/tighterror.yaml:1:10"},
		{"Relative path", PathModeRelative, "specs/tighterror.yaml:1:10"},
		{"Basename only", PathModeBasename, "tighterror.yaml:1:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR PRS1002: bad error name") {
				t.Errorf("missing header in:\n%s", output)
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"tighterror.yaml", "tighterror.yaml"},
		{"/tmp/tighterror.yaml", "/tmp/tighterror.yaml"},
		{"/very/long/absolute/path/to/some/nested/directory/errors.toml", "errors.toml"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, PathModeAuto, ""); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("categories:\n  - name: bad_cat\n    errors: [A]\n")
	fileID := fs.AddVirtual("spec.yaml", content)

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.BadIdentifierCharacters, source.Span{File: fileID, Start: 22, End: 29}, "bad category name")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 10}, "in categories")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	want := strings.Join([]string{
		"spec.yaml:2:11: ERROR PRS1002: bad category name",
		"1 | categories:",
		"2 |   - name: bad_cat",
		"  | " + strings.Repeat(" ", 10) + "^~~~~~~",
		"3 |     errors: [A]",
		"  note: spec.yaml:1:1: in categories",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") || strings.Contains(buf.String(), "categories:") {
		t.Fatalf("context or notes leaked:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("spec.yaml", []byte("errors: []\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.EmptyList, source.Span{File: fileID, Start: 8, End: 10}, "empty"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("escape codes without Color")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("no escape codes with Color")
	}
}

func TestUnderlineClamps(t *testing.T) {
	line := "errors: [A]"
	col, width := underline(line, source.LineCol{Line: 1, Col: 9}, source.LineCol{Line: 3, Col: 1})
	if col != 8 || width != 3 {
		t.Fatalf("multi-line span = %d,%d", col, width)
	}
	col, width = underline(line, source.LineCol{Line: 1, Col: 40}, source.LineCol{Line: 1, Col: 40})
	if col != len(line) || width != 1 {
		t.Fatalf("past end = %d,%d", col, width)
	}
}
