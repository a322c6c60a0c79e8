package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tighterror/tighterror/internal/backend/golang"
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/driver"
)

func files() []golang.File {
	return []golang.File{
		{Name: "errs.go", Content: []byte("package errs\n"), Unit: "errs"},
		{Name: "errs_test.go", Content: []byte("package errs\n\n// test\n"), Test: true, Unit: "errs"},
	}
}

func TestWriteStdoutBanner(t *testing.T) {
	var buf bytes.Buffer
	w := driver.Writer{Dest: driver.Destination{Stdout: true}, Stdout: &buf}
	res, err := w.Write(files())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "package errs\n\n// ==> errs_test.go <==\npackage errs\n\n// test\n"
	if buf.String() != want {
		t.Fatalf("stdout =\n%q\nwant\n%q", buf.String(), want)
	}
	if len(res) != 2 || res[0].Path != "" {
		t.Fatalf("results = %+v", res)
	}
}

func TestWriteFileDestination(t *testing.T) {
	dir := t.TempDir()
	w := driver.Writer{Dest: driver.Destination{File: filepath.Join(dir, "errs.go")}}
	res, err := w.Write(files())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for i, f := range files() {
		got, err := os.ReadFile(filepath.Join(dir, f.Name))
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(got, f.Content) {
			t.Fatalf("%s = %q", f.Name, got)
		}
		if res[i].Status != driver.Written {
			t.Fatalf("%s status = %s", f.Name, res[i].Status)
		}
	}
}

func TestWriteUpdateMode(t *testing.T) {
	dir := t.TempDir()
	w := driver.Writer{Dest: driver.Destination{Dir: dir}, Update: true}

	res, err := w.Write(files())
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	for _, r := range res {
		if r.Status != driver.Updated {
			t.Fatalf("%s: new file status = %s", r.Name, r.Status)
		}
	}
	st, err := os.Stat(filepath.Join(dir, "errs.go"))
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o644 {
		t.Fatalf("mode = %v", st.Mode().Perm())
	}

	res, err = w.Write(files())
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	for _, r := range res {
		if r.Status != driver.Unchanged {
			t.Fatalf("%s: status = %s, want unchanged", r.Name, r.Status)
		}
	}

	changed := files()
	changed[0].Content = []byte("package errs\n\nvar x = 1\n")
	res, err = w.Write(changed)
	if err != nil {
		t.Fatalf("third Write: %v", err)
	}
	if res[0].Status != driver.Updated || res[1].Status != driver.Unchanged {
		t.Fatalf("statuses = %s, %s", res[0].Status, res[1].Status)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "errs.go"))
	if !bytes.Equal(got, changed[0].Content) {
		t.Fatalf("errs.go = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFailure(t *testing.T) {
	dir := t.TempDir()
	w := driver.Writer{Dest: driver.Destination{Dir: filepath.Join(dir, "missing")}}
	_, err := w.Write(files())
	if diag.CodeOf(err) != diag.FailedToWriteOutputFile {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteSeparateUnits(t *testing.T) {
	dir := t.TempDir()
	units := []golang.File{
		{Name: "a.go", Content: []byte("package a\n"), Unit: "a"},
		{Name: "a_test.go", Content: []byte("package a\n"), Test: true, Unit: "a"},
		{Name: "b.go", Content: []byte("package b\n"), Unit: "b"},
	}
	for _, update := range []bool{false, true} {
		w := driver.Writer{Dest: driver.Destination{Dir: dir, Separate: true}, Update: update}
		res, err := w.Write(units)
		if err != nil {
			t.Fatalf("Write(update=%t): %v", update, err)
		}
		for i, f := range units {
			want := filepath.Join(dir, f.Unit, f.Name)
			if res[i].Path != want {
				t.Fatalf("%s path = %q, want %q", f.Name, res[i].Path, want)
			}
			if got, err := os.ReadFile(want); err != nil || !bytes.Equal(got, f.Content) {
				t.Fatalf("read %s = %q, %v", want, got, err)
			}
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Fatalf("file %s written next to the unit directories", e.Name())
		}
	}
}
