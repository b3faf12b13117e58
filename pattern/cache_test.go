package pattern

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/polter-rnd/slimlog/buffer"
)

func newTestCache() *CachedFormatter[int64] {
	return NewCachedFormatter(func(dst []byte, v int64) []byte {
		return strconv.AppendInt(dst, v, 10)
	})
}

func TestCachedFormatter_Basic(t *testing.T) {
	c := newTestCache()
	buf := buffer.New()

	if err := c.Format(buf, 7); err != nil {
		t.Fatal(err)
	}
	if err := c.Format(buf, 7); err != nil {
		t.Fatal(err)
	}
	if err := c.Format(buf, 8); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "778" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCachedFormatter_HitDoesNotRerender(t *testing.T) {
	var renders atomic.Int64
	c := NewCachedFormatter(func(dst []byte, v int64) []byte {
		renders.Add(1)
		return strconv.AppendInt(dst, v, 10)
	})

	buf := buffer.New()
	for i := 0; i < 100; i++ {
		if err := c.Format(buf, 5); err != nil {
			t.Fatal(err)
		}
	}
	if got := renders.Load(); got != 1 {
		t.Errorf("expected 1 render for repeated value, got %d", got)
	}
}

// TestCachedFormatter_NoTornReads hammers one formatter with many
// readers and a writer that keeps changing the value. Every appended
// rendering must be internally consistent: the digits of one value,
// never a splice of two.
func TestCachedFormatter_NoTornReads(t *testing.T) {
	// Values chosen so any mix of two renderings is detectable:
	// both are 7 digits with disjoint digit sets.
	const a, b int64 = 1111111, 2222222

	c := newTestCache()
	stop := make(chan struct{})
	var writerDone sync.WaitGroup
	var wg sync.WaitGroup

	writerDone.Add(1)
	go func() {
		defer writerDone.Done()
		buf := buffer.New()
		v := a
		for {
			select {
			case <-stop:
				return
			default:
			}
			buf.Reset()
			if err := c.Format(buf, v); err != nil {
				t.Error(err)
				return
			}
			if v == a {
				v = b
			} else {
				v = a
			}
		}
	}()

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func(mine int64) {
			defer wg.Done()
			buf := buffer.New()
			for i := 0; i < 5000; i++ {
				buf.Reset()
				if err := c.Format(buf, mine); err != nil {
					t.Error(err)
					return
				}
				got := buf.String()
				if got != "1111111" && got != "2222222" {
					t.Errorf("torn read: %q", got)
					return
				}
			}
		}(a)
	}

	wg.Wait()
	close(stop)
	writerDone.Wait()
}

func TestCachedFormatter_WriteVisibleAfterCompletion(t *testing.T) {
	c := newTestCache()
	buf := buffer.New()
	if err := c.Format(buf, 1); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := c.Format(buf, 2); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "2" {
		t.Errorf("stale cache after write: %q", buf.String())
	}
}

func BenchmarkCachedFormatter_Hit(b *testing.B) {
	c := newTestCache()
	buf := buffer.New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = c.Format(buf, 42)
	}
}

func BenchmarkCachedFormatter_Miss(b *testing.B) {
	c := newTestCache()
	buf := buffer.New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = c.Format(buf, int64(i))
	}
}
