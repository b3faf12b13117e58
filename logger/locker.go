package logger

import "sync"

// locker abstracts the node's read/write lock so a tree can run under
// one of two execution policies: fully thread-safe (sync.RWMutex) or
// single-threaded with zero locking overhead (nopLocker).
type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// nopLocker is the no-synchronization policy. Using it from multiple
// goroutines is a caller error.
type nopLocker struct{}

func (nopLocker) Lock()    {}
func (nopLocker) Unlock()  {}
func (nopLocker) RLock()   {}
func (nopLocker) RUnlock() {}

func newLocker(singleThreaded bool) locker {
	if singleThreaded {
		return nopLocker{}
	}
	return &sync.RWMutex{}
}
