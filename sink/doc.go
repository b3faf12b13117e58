// Package sink provides the Sink interface and its built-in
// implementations for delivering formatted records to destinations.
//
// Every concrete sink embeds Base, which owns the compiled pattern and
// the level-name overrides; SetPattern and SetLevels swap these
// atomically against concurrent Message calls.
//
// Built-in sinks:
//
//   - Console writes to a terminal or any io.Writer, with per-level
//     ANSI coloring auto-detected on TTYs.
//   - File writes to a rotating log file (size/age/backup limits,
//     optional compression) behind a write buffer drained by Flush.
//   - Stream writes to an arbitrary io.Writer.
//   - Callback hands records and formatted bytes to a user function.
//   - Discard formats and drops, for benchmarks and tests.
//
// Async wraps any of them with a bounded queue and a background
// delivery goroutine. When the queue is full, each severity applies
// its own OverflowPolicy: DropNewest for routine noise, DropOldest, or
// Block with a timeout so errors are never silently lost. Dropped,
// blocked and processed counts are tracked in Stats.
package sink
