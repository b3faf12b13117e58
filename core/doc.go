// Package core defines the shared types used across the slimlog
// framework.
//
// It provides the Level type for severity filtering, the LevelNames
// table that sinks use to render severities, and the Record type that
// represents a single log event.
//
// A Record is a plain stack value: the originating logger fills it in,
// every sink in the effective list reads it, and it is gone once the
// fanout loop returns. Expensive derived data (the goroutine id) is
// computed lazily through accessors so that patterns which never
// reference it pay nothing.
//
// The coarse clock caches time.Now at 500µs resolution for hot paths
// where a syscall-precision timestamp per record is not worth its cost.
package core
