package sink

import (
	"io"
	"sync"

	"github.com/polter-rnd/slimlog/core"
)

// Stream writes formatted records to an arbitrary io.Writer. Flush
// forwards to the writer's own Flush or Sync capability when present.
type Stream struct {
	Base
	mu sync.Mutex
	w  io.Writer
}

// NewStream creates a stream sink over w.
func NewStream(w io.Writer, opts ...Option) (*Stream, error) {
	s := &Stream{w: w}
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Message implements Sink.
func (s *Stream) Message(rec *core.Record) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := s.format(buf, rec); err != nil {
		return err
	}

	s.mu.Lock()
	_, err := s.w.Write(buf.Bytes())
	s.mu.Unlock()
	return err
}

// Flush implements Sink.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch w := s.w.(type) {
	case interface{ Flush() error }:
		return w.Flush()
	case interface{ Sync() error }:
		return w.Sync()
	}
	return nil
}
