// Package trace provides span tracing for ksnum commands.
//
// Spans mark command boundaries, batch lines, expression evaluation and
// individual arithmetic operations so slow inputs (a huge power, a long
// division with thousands of limbs) can be located without a profiler.
//
// # Usage
//
//	ksnum batch --trace=- --trace-level=expr lines.txt
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events, dumped when a check fails
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelCommand emits ScopeCommand and ScopeBatch spans, LevelExpr adds
// ScopeExpr, LevelDebug adds ScopeOp. LevelError records nothing up front;
// it only enables the ring dump on failure.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeExpr, "eval", parent)
//	defer span.End("")
package trace
