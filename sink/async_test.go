package sink

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polter-rnd/slimlog/core"
)

// blockingSink parks every Message until released.
type blockingSink struct {
	mu      sync.Mutex
	release chan struct{}
	got     []string
}

func newBlockingSink() *blockingSink {
	return &blockingSink{release: make(chan struct{})}
}

func (s *blockingSink) Message(rec *core.Record) error {
	<-s.release
	s.mu.Lock()
	s.got = append(s.got, rec.Message)
	s.mu.Unlock()
	return nil
}

func (s *blockingSink) Flush() error { return nil }

func TestAsync_DeliversInOrder(t *testing.T) {
	var buf bytes.Buffer
	inner, err := NewStream(&buf, WithPattern("{message}"))
	if err != nil {
		t.Fatal(err)
	}
	a := NewAsync(inner, AsyncConfig{QueueSize: 16})

	for _, msg := range []string{"one", "two", "three"} {
		if err := a.Message(testRecord(msg)); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "one\ntwo\nthree\n" {
		t.Errorf("got %q", got)
	}
	if a.Stats().Processed() != 3 {
		t.Errorf("processed = %d", a.Stats().Processed())
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Message(testRecord("late")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestAsync_DropNewestOnOverflow(t *testing.T) {
	inner := newBlockingSink()
	a := NewAsync(inner, AsyncConfig{
		QueueSize: 1,
		Policies:  map[core.Level]OverflowPolicy{core.InfoLevel: DropNewest},
	})

	// One record is parked in the worker, one fills the queue; the
	// rest must be dropped without blocking.
	for i := 0; i < 10; i++ {
		if err := a.Message(testRecord("spam")); err != nil {
			t.Fatal(err)
		}
	}
	if dropped := a.Stats().Dropped(core.InfoLevel); dropped == 0 {
		t.Error("expected drops under overflow")
	}

	close(inner.release)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAsync_BlockTimesOut(t *testing.T) {
	inner := newBlockingSink()
	a := NewAsync(inner, AsyncConfig{
		QueueSize:    1,
		Policies:     map[core.Level]OverflowPolicy{core.ErrorLevel: Block},
		BlockTimeout: 10 * time.Millisecond,
	})

	rec := testRecord("boom")
	rec.Level = core.ErrorLevel
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := a.Message(rec); err != nil {
			t.Fatal(err)
		}
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Block policy did not wait")
	}
	if a.Stats().Blocked() == 0 {
		t.Error("expected blocked counter to advance")
	}

	close(inner.release)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAsync_WorkerGoroutineIDNotLeaked(t *testing.T) {
	var mu sync.Mutex
	var seen []int64
	inner, err := NewCallback(func(rec *core.Record, _ []byte) error {
		mu.Lock()
		seen = append(seen, rec.ThreadID())
		mu.Unlock()
		return nil
	}, WithPattern("{thread}"))
	if err != nil {
		t.Fatal(err)
	}
	a := NewAsync(inner, AsyncConfig{QueueSize: 4})

	want := core.GoroutineID()
	if err := a.Message(testRecord("x")); err != nil {
		t.Fatal(err)
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != want {
		t.Errorf("worker saw thread ids %v, want [%d]", seen, want)
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAsync_CloseFlushesInner(t *testing.T) {
	w := &flushRecorder{}
	inner, err := NewStream(w, WithPattern("{message}"))
	if err != nil {
		t.Fatal(err)
	}
	a := NewAsync(inner, AsyncConfig{})

	if err := a.Message(testRecord("queued")); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if !w.flushed {
		t.Error("Close did not flush the inner sink")
	}
	if !strings.Contains(w.String(), "queued") {
		t.Error("queued record lost on Close")
	}
}
