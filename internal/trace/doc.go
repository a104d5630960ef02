// Package trace records what the gate and the bundling pipeline did, for
// diagnosing slow or stuck runs and for explaining why an import was
// accepted or rejected.
//
// Enable it from the command line:
//
//	esgate check --trace=- --trace-level=debug src/main.js
//
// Tracers:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a crash dump
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: LevelPhase shows driver and pass boundaries,
// LevelDetail adds per-entry-point spans, LevelDebug adds one point event
// per specifier decision.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "check", 0)
//	defer span.End("")
package trace
