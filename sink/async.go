package sink

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polter-rnd/slimlog/core"
)

// OverflowPolicy defines how Async handles a full queue.
type OverflowPolicy int

const (
	// DropNewest drops the incoming record when the queue is full.
	DropNewest OverflowPolicy = iota
	// DropOldest evicts the oldest queued record to make room.
	DropOldest
	// Block waits for space, up to the configured timeout.
	Block
)

// String returns the string representation of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy drops routine noise when the queue is full but
// blocks for errors so they are never silently lost.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel: DropNewest,
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
		core.FatalLevel: Block,
	}
}

// Stats tracks async sink counters.
type Stats struct {
	dropped   [int(core.FatalLevel) + 1]atomic.Uint64
	blocked   atomic.Uint64
	processed atomic.Uint64
}

// Dropped returns how many records of the given level were dropped.
func (s *Stats) Dropped(level core.Level) uint64 {
	if level < 0 || int(level) >= len(s.dropped) {
		return 0
	}
	return s.dropped[level].Load()
}

// TotalDropped returns the dropped count across all levels.
func (s *Stats) TotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Blocked returns how many sends hit the Block policy timeout path.
func (s *Stats) Blocked() uint64 { return s.blocked.Load() }

// Processed returns how many records reached the inner sink.
func (s *Stats) Processed() uint64 { return s.processed.Load() }

func (s *Stats) incDropped(level core.Level) {
	if level >= 0 && int(level) < len(s.dropped) {
		s.dropped[level].Add(1)
	}
}

// ErrClosed is returned by Message and Flush after Close.
var ErrClosed = errors.New("sink: async sink closed")

// AsyncConfig holds configuration for the Async wrapper.
type AsyncConfig struct {
	// QueueSize is the bounded queue length (default 1000).
	QueueSize int
	// Policies maps severities to overflow behavior
	// (default DefaultLevelPolicy).
	Policies map[core.Level]OverflowPolicy
	// BlockTimeout bounds how long the Block policy waits (default 100ms).
	BlockTimeout time.Duration
	// DrainTimeout bounds how long Close waits for the queue to drain
	// (default 5s).
	DrainTimeout time.Duration
}

func (cfg *AsyncConfig) applyDefaults() {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.Policies == nil {
		cfg.Policies = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
}

type asyncItem struct {
	rec   core.Record
	flush chan error // non-nil marks a flush token
}

// Async decouples a slow sink from the logging hot path: records are
// copied into a bounded queue and delivered by one background
// goroutine. A full queue is handled per-level by an OverflowPolicy,
// with counters exposed through Stats.
type Async struct {
	inner  Sink
	cfg    AsyncConfig
	queue  chan asyncItem
	stats  Stats
	mu     sync.RWMutex // guards closed vs. in-flight sends
	closed bool
	done   chan struct{}
}

// NewAsync wraps inner with an asynchronous delivery queue.
func NewAsync(inner Sink, cfg AsyncConfig) *Async {
	cfg.applyDefaults()
	a := &Async{
		inner: inner,
		cfg:   cfg,
		queue: make(chan asyncItem, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	go a.worker()
	return a
}

func (a *Async) worker() {
	defer close(a.done)
	for it := range a.queue {
		if it.flush != nil {
			it.flush <- a.inner.Flush()
			continue
		}
		if err := a.inner.Message(&it.rec); err == nil {
			a.stats.processed.Add(1)
		}
	}
}

// Message implements Sink. The record is copied; its goroutine id is
// resolved here so the worker does not observe its own.
func (a *Async) Message(rec *core.Record) error {
	rec.ThreadID()

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	it := asyncItem{rec: *rec}
	select {
	case a.queue <- it:
		return nil
	default:
	}

	switch a.cfg.Policies[rec.Level] {
	case DropOldest:
		select {
		case old := <-a.queue:
			if old.flush != nil {
				// Never leave a waiting Flush caller hanging.
				old.flush <- nil
			} else {
				a.stats.incDropped(old.rec.Level)
			}
		default:
		}
		select {
		case a.queue <- it:
			return nil
		default:
			a.stats.incDropped(rec.Level)
			return nil
		}
	case Block:
		a.stats.blocked.Add(1)
		timer := time.NewTimer(a.cfg.BlockTimeout)
		defer timer.Stop()
		select {
		case a.queue <- it:
			return nil
		case <-timer.C:
			a.stats.incDropped(rec.Level)
			return nil
		}
	default: // DropNewest
		a.stats.incDropped(rec.Level)
		return nil
	}
}

// Flush implements Sink: it waits until everything queued before the
// call is delivered, then flushes the inner sink.
func (a *Async) Flush() error {
	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return ErrClosed
	}
	token := asyncItem{flush: make(chan error, 1)}
	a.queue <- token
	a.mu.RUnlock()
	return <-token.flush
}

// Stats returns the sink's counters.
func (a *Async) Stats() *Stats { return &a.stats }

// Close stops accepting records, waits up to DrainTimeout for the
// queue to drain, and flushes the inner sink.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.cfg.DrainTimeout):
		return errors.New("sink: async drain timed out")
	}
	return a.inner.Flush()
}
