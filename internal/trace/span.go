package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// Span is an open interval started by Begin. A nil or disabled span is
// safe to use.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	lane   uint64
	scope  Scope
	name   string
	start  time.Time
	attrs  map[string]string
}

// Begin opens a span under the innermost span of ctx and returns a context
// in which the new span is innermost. Module spans run concurrently, so each
// gets a lane of its own.
func Begin(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	if !st.tracer.Level().Allows(scope) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer: st.tracer,
		id:     spanCounter.Add(1),
		parent: st.span,
		lane:   st.lane,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	if scope == ScopeModule {
		s.lane = s.id + 1
	}
	s.tracer.Emit(s.event(KindBegin, s.start, ""))

	if ctx == nil {
		ctx = context.Background()
	}
	st.span, st.lane = s.id, s.lane
	return context.WithValue(ctx, ctxKey{}, st), s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:   at,
		Seq:    NextSeq(),
		Kind:   kind,
		Scope:  s.scope,
		Span:   s.id,
		Parent: s.parent,
		Lane:   s.lane,
		Name:   s.name,
		Detail: detail,
	}
}

// Attr records key=value on the end event.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindEnd, now, detail)
	ev.Attrs = s.attrs
	s.tracer.Emit(ev)
	return now.Sub(s.start)
}

// ID is 0 for spans that were filtered out.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event under the innermost span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	st := stateOf(ctx)
	if !st.tracer.Level().Allows(scope) {
		return
	}
	st.tracer.Emit(&Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindPoint,
		Scope:  scope,
		Parent: st.span,
		Lane:   st.lane,
		Name:   name,
		Detail: detail,
	})
}
