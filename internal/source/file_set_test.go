package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("tighterror.yaml", []byte("errors: [A]"), 0)
	id2 := fs.Add("tighterror.yaml", []byte("errors: [B]"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("ids = %d, %d, want 0, 1", id1, id2)
	}
	latest, ok := fs.GetLatest("tighterror.yaml")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v, want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "errors: [A]" {
		t.Fatalf("first content = %q", got)
	}
	if fs.Get(FileID(7)) != nil {
		t.Fatalf("Get(unknown) should be nil")
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	content := []byte("\xEF\xBB\xBFerrors:\r\n  - A\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "errors:\n  - A\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
}

func TestResolveAndOffset(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.yaml", []byte("ab\ncd\n\nefg"))
	f := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
		if back := f.Offset(tt.want); back != tt.off {
			t.Errorf("Offset(%+v) = %d, want %d", tt.want, back, tt.off)
		}
	}

	if got := f.GetLine(2); got != "cd" {
		t.Errorf("GetLine(2) = %q, want %q", got, "cd")
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q, want empty", got)
	}
	if got := f.GetLine(4); got != "efg" {
		t.Errorf("GetLine(4) = %q, want %q", got, "efg")
	}

	sp := f.SpanAt(LineCol{Line: 4, Col: 2}, 10)
	if sp.Start != 8 || sp.End != 10 {
		t.Errorf("SpanAt clamps to file end: got %v", sp)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := NoSpan.Cover(a); got != a {
		t.Fatalf("NoSpan.Cover = %v, want %v", got, a)
	}
	if NoSpan.Valid() {
		t.Fatalf("NoSpan must be invalid")
	}
	if NoSpan.String() != "-" {
		t.Fatalf("NoSpan.String() = %q", NoSpan.String())
	}
}

func TestLineCountAndClamp(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddBytes("a.toml", []byte("x = 1\r\ny = 2\r\n")))
	if f.Flags&FileNormalizedCRLF == 0 || f.Flags&FileHadBOM != 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if f.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", f.LineCount())
	}
	if got := f.Position(100); got != (LineCol{Line: 3, Col: 1}) {
		t.Fatalf("Position past end = %+v", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine past end = %q", got)
	}
	if sp := f.SpanAt(LineCol{Line: 1, Col: 99}, 3); sp.Start != 5 || sp.End != 8 {
		t.Fatalf("SpanAt past line end = %v", sp)
	}

	lone := fs.Get(fs.AddBytes("b.toml", []byte("a\rb")))
	if lone.Flags != 0 || string(lone.Content) != "a\rb" {
		t.Fatalf("lone CR changed: %q %b", lone.Content, lone.Flags)
	}
	if _, err := fs.Load("does/not/exist.yaml"); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
