// Package trace records what a tighterror run is doing. A run span
// contains one span per pipeline stage, and the plan stage contains one
// span per spec module built in parallel.
//
//	tighterror --trace=- --trace-level=module -s tighterror.yaml
//
// Spans nest through the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Begin(ctx, trace.ScopeStage, "parse")
//	defer span.End("")
//
// Events go to a StreamTracer (text, NDJSON or chrome://tracing JSON),
// to a RingTracer dumped when the command ends, or to both. The level
// decides which scopes are recorded; error keeps stage spans in the ring
// only.
package trace
