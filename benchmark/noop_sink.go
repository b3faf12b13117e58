package benchmark

import "github.com/polter-rnd/slimlog/core"

// noopSink skips formatting entirely; it isolates the cost of the
// logger front-end (gate, record, fanout) from pattern rendering.
type noopSink struct{}

func (noopSink) Message(rec *core.Record) error {
	_ = len(rec.Message)
	return nil
}

func (noopSink) Flush() error { return nil }
