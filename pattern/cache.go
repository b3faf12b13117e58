package pattern

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/polter-rnd/slimlog/buffer"
)

// CachedFormatter amortizes the rendering cost of a scalar placeholder
// whose value repeats across consecutive records (the same source
// line, the same rounded second). Each placeholder occurrence owns its
// own instance.
//
// Synchronization is a seqlock: writers serialize on a mutex and bump
// the version to an odd number while a rewrite is in progress; readers
// never lock. The cached value and its rendered text are published
// together as one immutable snapshot behind an atomic pointer, so a
// reader can never observe a value/text pair from two writer epochs.
// Readers that see an odd or changed version yield and retry; retries
// are bounded by writer progress because the writer path never blocks
// on anything but its own uncontended mutex.
type CachedFormatter[T comparable] struct {
	render  func(dst []byte, v T) []byte
	version atomic.Uint64
	snap    atomic.Pointer[snapshot[T]]
	mu      sync.Mutex
}

type snapshot[T comparable] struct {
	value T
	text  []byte
}

// NewCachedFormatter returns a formatter that renders values through
// the given append-style function. The function is called only on
// cache misses.
func NewCachedFormatter[T comparable](render func(dst []byte, v T) []byte) *CachedFormatter[T] {
	return &CachedFormatter[T]{render: render}
}

// Format appends the rendering of v to buf, reusing the cached text
// when v matches the last formatted value.
func (c *CachedFormatter[T]) Format(buf *buffer.Buffer, v T) error {
	for {
		v1 := c.version.Load()
		if v1&1 != 0 {
			// Write in progress.
			runtime.Gosched()
			continue
		}
		snap := c.snap.Load()
		if c.version.Load() != v1 {
			continue
		}
		if snap != nil && snap.value == v {
			_, err := buf.Write(snap.text)
			return err
		}
		break
	}

	c.mu.Lock()
	if snap := c.snap.Load(); snap != nil && snap.value == v {
		c.mu.Unlock()
		_, err := buf.Write(snap.text)
		return err
	}
	c.version.Add(1) // odd: rewrite in progress
	snap := &snapshot[T]{value: v, text: c.render(nil, v)}
	c.snap.Store(snap)
	c.version.Add(1) // even: rewrite complete
	c.mu.Unlock()

	_, err := buf.Write(snap.text)
	return err
}
