package sink

import "github.com/polter-rnd/slimlog/core"

// Discard formats records and drops the output. It exists so
// benchmarks and tests measure the full format path without I/O.
type Discard struct {
	Base
}

// NewDiscard creates a discarding sink.
func NewDiscard(opts ...Option) (*Discard, error) {
	s := &Discard{}
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Message implements Sink.
func (s *Discard) Message(rec *core.Record) error {
	buf := getBuffer()
	defer putBuffer(buf)
	return s.format(buf, rec)
}

// Flush implements Sink.
func (s *Discard) Flush() error { return nil }
