package trace

import "context"

type ctxKey struct{}

// ctxState is what travels in a context: the tracer and the innermost open span.
type ctxState struct {
	tracer Tracer
	span   uint64
	lane   uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop, lane: 1}
}

// WithTracer attaches t to ctx. Spans opened below it become roots.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t, lane: 1})
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// SpanID returns the innermost span opened with Begin on ctx, 0 at the root.
func SpanID(ctx context.Context) uint64 {
	return stateOf(ctx).span
}
