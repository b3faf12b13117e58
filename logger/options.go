package logger

import (
	"time"

	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/sink"
)

// Option configures a Logger at construction time.
type Option func(*Logger)

// WithLevel sets the node's initial severity gate.
func WithLevel(level core.Level) Option {
	return func(l *Logger) { l.level.Store(int32(level)) }
}

// WithPropagate sets whether the node inherits its parent's sinks.
func WithPropagate(enabled bool) Option {
	return func(l *Logger) { l.propagate = enabled }
}

// WithCaller controls source-location capture. Disabling it removes a
// runtime.Caller call from every accepted record; {file}, {line} and
// {function} placeholders then render empty or zero.
func WithCaller(enabled bool) Option {
	return func(l *Logger) { l.withCaller = enabled }
}

// WithSinks attaches sinks at construction.
func WithSinks(sinks ...sink.Sink) Option {
	return func(l *Logger) {
		for _, s := range sinks {
			l.own = append(l.own, sinkEntry{s: s, enabled: true})
		}
	}
}

// WithSingleThreaded selects the no-synchronization execution policy
// for this node and, via inheritance, for children created from it.
// All access must then come from one goroutine.
func WithSingleThreaded() Option {
	return func(l *Logger) { l.single = true }
}

// WithThreadSafe selects the locking execution policy (the default);
// useful to override inheritance from a single-threaded parent.
func WithThreadSafe() Option {
	return func(l *Logger) { l.single = false }
}

// WithCoarseClock samples record timestamps from the 500µs coarse
// clock instead of time.Now, trading timestamp precision for hot-path
// cost.
func WithCoarseClock() Option {
	return func(l *Logger) {
		core.StartCoarseClock()
		l.clock = core.CoarseNow
	}
}

// WithClock substitutes the timestamp source; tests use it to pin
// record times.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) { l.clock = clock }
}
