package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tighterror/tighterror/internal/backend/golang"
	"github.com/tighterror/tighterror/internal/diag"
	"github.com/tighterror/tighterror/internal/source"
)

// WriteStatus tells what happened to one output file.
type WriteStatus uint8

const (
	// Written means the file was (re)written unconditionally.
	Written WriteStatus = iota
	// Unchanged means update mode found identical content on disk.
	Unchanged
	// Updated means update mode replaced or created the file.
	Updated
)

func (s WriteStatus) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	}
	return "written"
}

// WriteResult reports one written file.
type WriteResult struct {
	Name   string
	Path   string
	Status WriteStatus
}

// Writer puts rendered files at a Destination.
type Writer struct {
	Dest Destination
	// Update compares with the existing file and leaves it alone when
	// nothing changed.
	Update bool
	// Stdout receives files when Dest.Stdout is set.
	Stdout io.Writer
}

// Write writes files in order. Stdout output separates files with a
// "// ==> name <==" banner.
func (w *Writer) Write(files []golang.File) ([]WriteResult, error) {
	if w.Dest.Stdout {
		return w.writeStdout(files)
	}
	out := make([]WriteResult, 0, len(files))
	for _, f := range files {
		path := w.Dest.PathFor(f)
		if w.Dest.Separate {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return out, writeErr(path, err)
			}
		}
		status := Written
		var err error
		if w.Update {
			status, err = updateFile(path, f.Content)
		} else {
			err = writeFile(path, f.Content)
		}
		if err != nil {
			return out, err
		}
		out = append(out, WriteResult{Name: f.Name, Path: path, Status: status})
	}
	return out, nil
}

func (w *Writer) writeStdout(files []golang.File) ([]WriteResult, error) {
	dst := w.Stdout
	if dst == nil {
		dst = os.Stdout
	}
	out := make([]WriteResult, 0, len(files))
	for i, f := range files {
		if i > 0 {
			if _, err := fmt.Fprintf(dst, "\n// ==> %s <==\n", f.Name); err != nil {
				return out, writeErr("stdout", err)
			}
		}
		if _, err := dst.Write(f.Content); err != nil {
			return out, writeErr("stdout", err)
		}
		out = append(out, WriteResult{Name: f.Name, Status: Written})
	}
	return out, nil
}

func writeFile(path string, content []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return writeErr(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = writeErr(path, cerr)
		}
	}()
	if _, err := f.Write(content); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// updateFile stages content in a temp file next to path and renames it
// over path only when the bytes differ.
func updateFile(path string, content []byte) (WriteStatus, error) {
	old, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Unchanged, diag.Errorf(diag.FailedToReadOutputFile, source.NoSpan,
			"failed to read output file %s: %v", path, err)
	}
	if exists && bytes.Equal(old, content) {
		return Unchanged, nil
	}

	if err := replaceFile(path, content, 0o644); err != nil {
		return Unchanged, writeErr(path, err)
	}
	return Updated, nil
}

// replaceFile writes content to a temp file in path's directory and renames
// it over path, so readers see either the old or the new bytes.
func replaceFile(path string, content []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	err = errors.Join(werr, cerr)
	if err == nil {
		// CreateTemp makes 0600 files
		err = os.Chmod(tmp.Name(), perm)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
	}
	return err
}

func writeErr(path string, err error) error {
	return diag.Errorf(diag.FailedToWriteOutputFile, source.NoSpan, "failed to write output file %s: %v", path, err)
}
