package source

import (
	"bytes"
	"sort"
)

// FileID indexes a FileSet. Reloading a path yields a new id.
type FileID uint32

// NoFileID marks spans that do not point into any file.
const NoFileID FileID = ^FileID(0)

// FileFlags records what happened to the bytes on the way in.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // added from memory, not read from disk
	FileHadBOM                               // a UTF-8 byte order mark was stripped
	FileNormalizedCRLF                       // \r\n line endings became \n
)

// LineCol is a 1-based position. Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// File is one loaded spec file after normalization.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags
	// lines holds the offset of every line start; lines[0] is 0.
	lines []uint32
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalize strips a leading BOM and turns \r\n into \n. Lone \r stays.
func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content, flags = rest, flags|FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content, flags = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), flags|FileNormalizedCRLF
	}
	return content, flags
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, bytes.Count(content, []byte("\n"))+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- size is checked in Add
		}
	}
	return starts
}

func (f *File) size() uint32 {
	return uint32(len(f.Content)) // #nosec G115 -- size is checked in Add
}

// LineCount includes the empty line after a trailing newline.
func (f *File) LineCount() uint32 {
	return uint32(len(f.lines)) // #nosec G115
}

// Position converts a byte offset to a line and column.
func (f *File) Position(off uint32) LineCol {
	off = min(off, f.size())
	// the last line starting at or before off
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > off }) - 1
	return LineCol{Line: uint32(i + 1), Col: off - f.lines[i] + 1} // #nosec G115
}

// lineBounds returns the byte range of line without its newline. Lines past
// the end collapse to the end of the file.
func (f *File) lineBounds(line uint32) (start, end uint32) {
	if line == 0 || line > f.LineCount() {
		return f.size(), f.size()
	}
	start = f.lines[line-1]
	end = f.size()
	if line < f.LineCount() {
		end = f.lines[line] - 1
	}
	return start, end
}

// Offset converts a position back into a byte offset. Columns past the end
// of the line clamp to the line end; line 0 maps to 0.
func (f *File) Offset(pos LineCol) uint32 {
	if pos.Line == 0 {
		return 0
	}
	start, end := f.lineBounds(pos.Line)
	return min(start+max(pos.Col, 1)-1, end)
}

// SpanAt is the span of n bytes starting at pos, cut at the end of the file.
func (f *File) SpanAt(pos LineCol, n int) Span {
	start := f.Offset(pos)
	end := start
	if n > 0 {
		end = uint32(min(int(start)+n, len(f.Content))) // #nosec G115
	}
	return Span{File: f.ID, Start: start, End: end}
}

// GetLine returns a 1-based line without its newline.
func (f *File) GetLine(line uint32) string {
	start, end := f.lineBounds(line)
	return string(f.Content[start:end])
}
