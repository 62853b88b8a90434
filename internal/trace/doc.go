// Package trace records what a goboscript build is doing and how long each
// part takes.
//
// Enable it from the command line:
//
//	goboscript build --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes every event to a file or stderr
//   - RingTracer: keeps the last N events in memory
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// A build span (ScopeBuild) wraps phase spans (ScopePhase: discover, parse,
// resolve, generate, report), which wrap one span per sprite (ScopeUnit).
// LevelPhase emits build and phase spans, LevelDetail adds units and
// LevelDebug adds point events such as cache decisions (ScopeEvent).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePhase, "parse")
//	defer span.End("")
package trace
