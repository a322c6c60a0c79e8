// Package tighterror is the runtime support of code generated by the
// tighterror command.
//
// Generated packages import it for the Location type and assert that their
// category, kind, error and variant types satisfy the interfaces below.
// Packages generated with no_std import nothing from here.
package tighterror

import (
	"runtime"
	"strconv"
)

const undefinedLocation = "<undefined location>"

// Location is a position in Go source code where an error was created.
// The zero Location is undefined.
type Location struct {
	File string
	Line int
}

// Undefined returns the undefined Location.
func Undefined() Location {
	return Location{}
}

// Caller returns the location of a caller on the stack. skip 0 identifies
// the function calling Caller, 1 its caller, and so on. An undefined
// Location is returned when the stack is not deep enough.
func Caller(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Undefined()
	}
	return Location{File: file, Line: line}
}

// IsUndefined reports whether l does not point anywhere.
func (l Location) IsUndefined() bool {
	return l.File == ""
}

func (l Location) String() string {
	if l.IsUndefined() {
		return undefinedLocation
	}
	return l.File + ":" + strconv.Itoa(l.Line)
}
