package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Emit must be safe for concurrent use; module
// spans are emitted from worker goroutines.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

type nop struct{}

func (nop) Emit(*Event)  {}
func (nop) Level() Level { return LevelOff }
func (nop) Close() error { return nil }

// Nop drops everything.
var Nop Tracer = nop{}

// Mode selects where events are kept.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // kept in memory, dumped when the run ends
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(s)
	for i, n := range modeNames {
		if n != "" && n == name {
			return Mode(i), nil
		}
	}
	return ModeStream, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

const defaultRingSize = 4096

// Config describes the tracer built by New.
type Config struct {
	Level    Level
	Mode     Mode
	Format   Format
	Output   io.Writer // wins over Path
	Path     string    // "-" or "" is stderr
	RingSize int
}

// New builds the tracer cfg asks for. LevelError always keeps events in
// a ring: there is nothing to stream until something goes wrong.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatForPath(cfg.Path)
	}
	mode := cfg.Mode
	if cfg.Level == LevelError {
		mode = ModeRing
	}

	switch mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, closer, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := newStreamTracer(w, closer, cfg.Level, cfg.Format)
		if mode == ModeStream {
			return stream, nil
		}
		return tee{stream, NewRingTracer(cfg.RingSize, cfg.Level)}, nil
	}
	return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
}

// Ring returns the ring buffer behind t, if there is one.
func Ring(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case tee:
		for _, inner := range t {
			if r := Ring(inner); r != nil {
				return r
			}
		}
	}
	return nil
}

// tee fans events out; each tracer gets its own copy.
type tee []Tracer

func (t tee) Emit(ev *Event) {
	for _, tr := range t {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t tee) Level() Level {
	var l Level
	for _, tr := range t {
		l = max(l, tr.Level())
	}
	return l
}

func (t tee) Close() error {
	var errs []error
	for _, tr := range t {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// FormatForPath picks a format from the output file extension.
func FormatForPath(path string) Format {
	switch {
	case strings.HasSuffix(path, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(path, ".json"):
		return FormatChrome
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil, nil
	case cfg.Path == "" || cfg.Path == "-":
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.Path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, f, nil
}
