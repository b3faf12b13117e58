package sink

import "github.com/polter-rnd/slimlog/core"

// Callback hands every record plus its formatted text to a user
// function. The byte slice is only valid for the duration of the call.
type Callback struct {
	Base
	fn func(rec *core.Record, formatted []byte) error
}

// NewCallback creates a callback sink.
func NewCallback(fn func(rec *core.Record, formatted []byte) error, opts ...Option) (*Callback, error) {
	s := &Callback{fn: fn}
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Message implements Sink.
func (s *Callback) Message(rec *core.Record) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := s.format(buf, rec); err != nil {
		return err
	}
	return s.fn(rec, buf.Bytes())
}

// Flush implements Sink.
func (s *Callback) Flush() error { return nil }
