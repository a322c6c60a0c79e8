package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// StreamTracer writes every event as soon as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	bw     *bufio.Writer
	closer io.Closer // nil for stderr and caller-owned writers
	level  Level
	format Format
	count  int
	closed bool
}

// NewStreamTracer writes to w; w stays open after Close.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return newStreamTracer(w, nil, level, format)
}

func newStreamTracer(w io.Writer, closer io.Closer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{bw: bufio.NewWriter(w), closer: closer, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.Allows(ev.Scope) {
		return
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.format == FormatChrome {
		if t.count == 0 {
			_, _ = t.bw.WriteString("{\"traceEvents\":[\n")
		} else {
			_, _ = t.bw.WriteString(",\n")
		}
	}
	// trace write errors never fail a run; Close reports them
	_, _ = t.bw.Write(data)
	t.count++
	// heartbeats exist to be seen while the run hangs
	if ev.Kind == KindHeartbeat || ev.Scope <= ScopeStage {
		_ = t.bw.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close terminates chrome framing, flushes and closes an owned file.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		if t.count == 0 {
			_, _ = t.bw.WriteString("{\"traceEvents\":[")
		}
		_, _ = t.bw.WriteString("\n]}\n")
	}
	err := t.bw.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
	}
	return err
}
