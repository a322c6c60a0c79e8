package trace

import (
	"fmt"
	"strings"
)

// Level limits which scopes reach a tracer.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // ring buffer only, dumped when the run ends
	LevelStage               // run and stage spans
	LevelModule              // plus one span per spec module
	LevelDebug               // everything
)

var levelNames = [...]string{"off", "error", "stage", "module", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope pass at level l.
func (l Level) Allows(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelStage:
		return scope <= ScopeStage
	case LevelModule:
		return scope <= ScopeModule
	default:
		return true
	}
}
