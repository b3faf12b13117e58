package logger

import (
	"fmt"
	"os"
	"slices"
	"sync/atomic"
	"time"
	"weak"

	"go.uber.org/multierr"

	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/sink"
)

// osExit is a variable to allow overriding os.Exit in tests
var osExit = os.Exit

// Logger is a node in the category hierarchy. It filters records by
// its own level and delivers accepted records to its effective sink
// list: the parent's effective list (when propagation is on) with this
// node's own sink table applied on top.
//
// Parent links are strong; child links are weak, so an abandoned child
// never outlives its references just because the parent is alive.
type Logger struct {
	category   string
	level      atomic.Int32
	withCaller bool
	callerSkip int
	clock      func() time.Time
	single     bool

	mu locker
	// Guarded by mu.
	parent    *Logger
	children  []weak.Pointer[Logger]
	own       []sinkEntry
	propagate bool
	effective []sink.Sink
}

// sinkEntry is one row of a node's own sink table. Enabled state lives
// here, per (logger, sink) pair, never on the shared sink itself.
type sinkEntry struct {
	s       sink.Sink
	enabled bool
}

// New creates a root logger with the given category.
func New(category string, opts ...Option) *Logger {
	l := &Logger{
		category:   category,
		withCaller: true,
		callerSkip: 3,
		clock:      time.Now,
		propagate:  true,
	}
	l.level.Store(int32(core.InfoLevel))
	for _, opt := range opts {
		opt(l)
	}
	l.mu = newLocker(l.single)
	l.refresh(make(map[*Logger]struct{}))
	return l
}

// NewChild creates a logger attached below l. The child inherits the
// level, caller capture, clock and execution policy unless options
// override them.
func (l *Logger) NewChild(category string, opts ...Option) *Logger {
	child := &Logger{
		category:   category,
		withCaller: l.withCaller,
		callerSkip: l.callerSkip,
		clock:      l.clock,
		single:     l.single,
		propagate:  true,
	}
	child.level.Store(l.level.Load())
	for _, opt := range opts {
		opt(child)
	}
	child.mu = newLocker(child.single)
	child.SetParent(l)
	return child
}

// Category returns the logger's immutable category name.
func (l *Logger) Category() string { return l.category }

// Level returns the node's own severity gate.
func (l *Logger) Level() core.Level { return core.Level(l.level.Load()) }

// SetLevel sets the node's own severity gate. Only the originating
// node's level is consulted when a message is logged; ancestor levels
// never filter propagated delivery.
func (l *Logger) SetLevel(level core.Level) { l.level.Store(int32(level)) }

// LevelEnabled reports whether a message at the given level would be
// accepted by this node. Lock-free.
func (l *Logger) LevelEnabled(level core.Level) bool {
	return int32(level) >= l.level.Load()
}

// Parent returns the current parent, or nil for a root.
func (l *Logger) Parent() *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parent
}

// Propagate reports whether this node inherits its parent's sinks.
func (l *Logger) Propagate() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.propagate
}

// SetPropagate controls whether this node's effective list starts from
// the parent's. It does not affect the node's directly attached sinks.
func (l *Logger) SetPropagate(enabled bool) {
	l.mu.Lock()
	changed := l.propagate != enabled
	l.propagate = enabled
	l.mu.Unlock()
	if changed {
		l.refresh(make(map[*Logger]struct{}))
	}
}

// AddSink attaches s to this node (enabling it if it was disabled) and
// reports whether the table changed. The same sink instance may be
// attached to any number of loggers.
func (l *Logger) AddSink(s sink.Sink) bool {
	l.mu.Lock()
	changed := false
	if i := l.ownIndexLocked(s); i >= 0 {
		if !l.own[i].enabled {
			l.own[i].enabled = true
			changed = true
		}
	} else {
		l.own = append(l.own, sinkEntry{s: s, enabled: true})
		changed = true
	}
	l.mu.Unlock()
	if changed {
		l.refresh(make(map[*Logger]struct{}))
	}
	return changed
}

// RemoveSink drops s from this node's own table and reports whether
// the table changed. An inherited sink cannot be removed here; disable
// it locally instead (AddSink + SetSinkEnabled(s, false)).
func (l *Logger) RemoveSink(s sink.Sink) bool {
	l.mu.Lock()
	i := l.ownIndexLocked(s)
	if i >= 0 {
		l.own = slices.Delete(l.own, i, i+1)
	}
	l.mu.Unlock()
	if i < 0 {
		return false
	}
	l.refresh(make(map[*Logger]struct{}))
	return true
}

// SetSinkEnabled flips the enabled flag of an own-table entry and
// reports whether the table changed. A disabled entry suppresses the
// same sink inherited from an ancestor.
func (l *Logger) SetSinkEnabled(s sink.Sink, enabled bool) bool {
	l.mu.Lock()
	changed := false
	if i := l.ownIndexLocked(s); i >= 0 && l.own[i].enabled != enabled {
		l.own[i].enabled = enabled
		changed = true
	}
	l.mu.Unlock()
	if changed {
		l.refresh(make(map[*Logger]struct{}))
	}
	return changed
}

func (l *Logger) ownIndexLocked(s sink.Sink) int {
	for i := range l.own {
		if l.own[i].s == s {
			return i
		}
	}
	return -1
}

// EffectiveSinks returns a snapshot of the flattened sink list this
// node currently delivers to.
func (l *Logger) EffectiveSinks() []sink.Sink {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.effective)
}

// SetParent detaches l from its current parent (if any), attaches it
// to p (if non-nil), and refreshes the subtree. Locks are taken one
// node at a time; no two node locks are ever held together.
// Re-parenting a node to itself is rejected.
func (l *Logger) SetParent(p *Logger) {
	if p == l {
		return
	}
	l.mu.Lock()
	old := l.parent
	l.parent = p
	l.mu.Unlock()

	if old != nil && old != p {
		old.removeChild(l)
	}
	if p != nil && p != old {
		p.addChild(l)
	}
	l.refresh(make(map[*Logger]struct{}))
}

// Message logs at the given level and returns the aggregated delivery
// errors. A level below the node's gate is a cheap no-op.
func (l *Logger) Message(level core.Level, msg string) error {
	if !l.LevelEnabled(level) {
		return nil
	}
	return l.write(level, msg)
}

// Log logs at the given level, discarding delivery errors.
func (l *Logger) Log(level core.Level, msg string) {
	if l.LevelEnabled(level) {
		_ = l.write(level, msg)
	}
}

// write builds the record and fans it out to the effective list. The
// effective list is iterated under the node's shared lock; a sink
// failing or panicking never disturbs delivery to its siblings.
func (l *Logger) write(level core.Level, msg string) error {
	rec := core.Record{
		Time:     l.clock(),
		Level:    level,
		Category: l.category,
		Message:  msg,
	}
	if l.withCaller {
		rec.Caller = core.GetCaller(l.callerSkip)
	}

	var errs error
	l.mu.RLock()
	for _, s := range l.effective {
		errs = multierr.Append(errs, deliver(s, &rec))
	}
	l.mu.RUnlock()
	return errs
}

func deliver(s sink.Sink, rec *core.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("logger: sink panicked: %v", r)
		}
	}()
	return s.Message(rec)
}

// Flush flushes every sink in the effective list.
func (l *Logger) Flush() error {
	eff := l.EffectiveSinks()
	var errs error
	for _, s := range eff {
		errs = multierr.Append(errs, s.Flush())
	}
	return errs
}

// Close detaches the logger from the tree: its live children are
// re-parented to its former parent (or become roots), and its own
// enabled sinks are flushed. The logger must not be used afterwards.
func (l *Logger) Close() error {
	l.mu.Lock()
	parent := l.parent
	l.parent = nil
	kids := l.liveChildrenLocked()
	l.children = nil
	own := l.own
	l.own = nil
	l.effective = nil
	l.mu.Unlock()

	if parent != nil {
		parent.removeChild(l)
	}
	for _, kid := range kids {
		kid.SetParent(parent)
	}

	var errs error
	for _, e := range own {
		if e.enabled {
			errs = multierr.Append(errs, e.s.Flush())
		}
	}
	return errs
}

// Trace logs a message at TraceLevel.
func (l *Logger) Trace(msg string) {
	if l.LevelEnabled(core.TraceLevel) {
		_ = l.write(core.TraceLevel, msg)
	}
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(msg string) {
	if l.LevelEnabled(core.DebugLevel) {
		_ = l.write(core.DebugLevel, msg)
	}
}

// Info logs a message at InfoLevel.
func (l *Logger) Info(msg string) {
	if l.LevelEnabled(core.InfoLevel) {
		_ = l.write(core.InfoLevel, msg)
	}
}

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(msg string) {
	if l.LevelEnabled(core.WarnLevel) {
		_ = l.write(core.WarnLevel, msg)
	}
}

// Error logs a message at ErrorLevel.
func (l *Logger) Error(msg string) {
	if l.LevelEnabled(core.ErrorLevel) {
		_ = l.write(core.ErrorLevel, msg)
	}
}

// Fatal logs a message at FatalLevel, flushes, and exits the program
// with os.Exit(1).
func (l *Logger) Fatal(msg string) {
	_ = l.write(core.FatalLevel, msg)
	_ = l.Flush()
	osExit(1)
}

// Tracef logs a formatted message at TraceLevel.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.LevelEnabled(core.TraceLevel) {
		_ = l.write(core.TraceLevel, fmt.Sprintf(format, args...))
	}
}

// Debugf logs a formatted message at DebugLevel.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.LevelEnabled(core.DebugLevel) {
		_ = l.write(core.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// Infof logs a formatted message at InfoLevel.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.LevelEnabled(core.InfoLevel) {
		_ = l.write(core.InfoLevel, fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted message at WarnLevel.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.LevelEnabled(core.WarnLevel) {
		_ = l.write(core.WarnLevel, fmt.Sprintf(format, args...))
	}
}

// Errorf logs a formatted message at ErrorLevel.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.LevelEnabled(core.ErrorLevel) {
		_ = l.write(core.ErrorLevel, fmt.Sprintf(format, args...))
	}
}

// Fatalf logs a formatted message at FatalLevel, flushes, and exits
// the program with os.Exit(1).
func (l *Logger) Fatalf(format string, args ...interface{}) {
	_ = l.write(core.FatalLevel, fmt.Sprintf(format, args...))
	_ = l.Flush()
	osExit(1)
}
