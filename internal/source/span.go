package source

import "strconv"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoSpan marks spec nodes built in memory or not located by the decoder.
var NoSpan = Span{File: NoFileID}

func (s Span) Valid() bool { return s.File != NoFileID }

func (s Span) String() string {
	if !s.Valid() {
		return "-"
	}
	return strconv.FormatUint(uint64(s.File), 10) + ":" +
		strconv.FormatUint(uint64(s.Start), 10) + "-" + strconv.FormatUint(uint64(s.End), 10)
}

// Cover widens s to include other. A span from another file leaves s as is.
func (s Span) Cover(other Span) Span {
	switch {
	case !s.Valid():
		return other
	case s.File != other.File:
		return s
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}
