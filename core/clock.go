package core

import (
	"sync"
	"sync/atomic"
	"time"
)

var (
	coarseOnce sync.Once
	coarseTime atomic.Pointer[time.Time]
)

// StartCoarseClock launches the sampler goroutine that caches
// time.Now() every 500µs. Calling it again is a no-op. The goroutine
// runs for the lifetime of the process, which matches how long logging
// is needed.
func StartCoarseClock() {
	coarseOnce.Do(func() {
		now := time.Now()
		coarseTime.Store(&now)
		go func() {
			tick := time.NewTicker(500 * time.Microsecond)
			for range tick.C {
				now := time.Now()
				coarseTime.Store(&now)
			}
		}()
	})
}

// CoarseNow returns the most recently sampled timestamp. It trades up
// to 500µs of precision for skipping the time.Now() syscall on hot
// paths. StartCoarseClock must have run first.
func CoarseNow() time.Time {
	return *coarseTime.Load()
}
