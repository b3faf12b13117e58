package buffer

import (
	"errors"
	"unicode/utf8"
)

// InlineSize is the number of bytes a Buffer holds without touching the
// heap. Typical formatted log lines fit here.
const InlineSize = 256

// ErrTooLarge is returned when a requested capacity exceeds the
// buffer's configured limit. The in-flight format operation fails;
// nothing is truncated silently.
var ErrTooLarge = errors.New("buffer: requested capacity exceeds limit")

// Buffer is a growable contiguous byte buffer with inline storage for
// short content and heap fallback for growth. Growth follows
// max(n, cap+cap/2) and copies inline→heap at most once; a grown
// buffer never shrinks back to inline storage.
//
// A Buffer must not be copied after first use: the active slice may
// alias the inline array. Pass a *Buffer instead.
type Buffer struct {
	buf   []byte
	limit int // 0 means unlimited
	arr   [InlineSize]byte
}

// New returns an empty buffer backed by inline storage.
func New() *Buffer {
	b := &Buffer{}
	b.buf = b.arr[:0]
	return b
}

// NewLimit returns an empty buffer that fails with ErrTooLarge when
// asked to grow beyond limit bytes of capacity.
func NewLimit(limit int) *Buffer {
	b := New()
	b.limit = limit
	return b
}

// lazyInit points buf at the inline array for zero-value Buffers.
func (b *Buffer) lazyInit() {
	if b.buf == nil {
		b.buf = b.arr[:0]
	}
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	b.lazyInit()
	return cap(b.buf)
}

// Bytes returns the written bytes. The slice is valid only until the
// next mutating call.
func (b *Buffer) Bytes() []byte { return b.buf }

// String returns the written bytes as a string.
func (b *Buffer) String() string { return string(b.buf) }

// At returns the byte at index i.
func (b *Buffer) At(i int) byte { return b.buf[i] }

// Reset discards all written bytes but keeps the current storage.
func (b *Buffer) Reset() {
	b.lazyInit()
	b.buf = b.buf[:0]
}

// Reserve ensures capacity for at least n bytes total. When n exceeds
// the current capacity, the new capacity is max(n, cap+cap/2), clamped
// to the configured limit; n itself above the limit is an error.
func (b *Buffer) Reserve(n int) error {
	b.lazyInit()
	if b.limit > 0 && n > b.limit {
		return ErrTooLarge
	}
	if n <= cap(b.buf) {
		return nil
	}
	newCap := cap(b.buf) + cap(b.buf)/2
	if newCap < n {
		newCap = n
	}
	if b.limit > 0 && newCap > b.limit {
		newCap = b.limit
	}
	grown := make([]byte, len(b.buf), newCap)
	copy(grown, b.buf)
	b.buf = grown
	return nil
}

// Resize sets the length to n, growing capacity as needed. New bytes
// are zero.
func (b *Buffer) Resize(n int) error {
	if err := b.Reserve(n); err != nil {
		return err
	}
	if n > len(b.buf) {
		tail := b.buf[len(b.buf):n]
		for i := range tail {
			tail[i] = 0
		}
	}
	b.buf = b.buf[:n]
	return nil
}

// Write appends p, growing as needed. Implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Reserve(len(b.buf) + len(p)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.Reserve(len(b.buf) + len(s)); err != nil {
		return 0, err
	}
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.Reserve(len(b.buf) + 1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

// WriteRune appends the UTF-8 encoding of r.
func (b *Buffer) WriteRune(r rune) (int, error) {
	if err := b.Reserve(len(b.buf) + utf8.UTFMax); err != nil {
		return 0, err
	}
	before := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - before, nil
}
