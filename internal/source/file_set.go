package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the spec files loaded during one invocation.
type FileSet struct {
	files  []*File
	latest map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// Add stores content as given and returns a fresh id, even when path was
// added before. GetLatest then resolves path to the new id.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil || FileID(n) == NoFileID {
		panic(fmt.Errorf("too many files in set: %d", len(fs.files)))
	}
	id := FileID(n)
	path = cleanPath(path)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    path,
		Content: content,
		Flags:   flags,
		lines:   lineStarts(content),
	})
	fs.latest[path] = id
	return id
}

// AddBytes normalizes BOM and line endings, then calls Add.
func (fs *FileSet) AddBytes(path string, content []byte) FileID {
	content, flags := normalize(content)
	return fs.Add(path, content, flags)
}

// AddVirtual adds in-memory content verbatim.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path from disk and adds it through AddBytes.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return NoFileID, err
	}
	return fs.AddBytes(path, content), nil
}

// Get returns nil for unknown ids and for a nil set.
func (fs *FileSet) Get(id FileID) *File {
	if fs == nil || int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[cleanPath(path)]
	return id, ok
}

// Resolve converts both ends of span to positions; zero values when the
// span's file is unknown.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}
