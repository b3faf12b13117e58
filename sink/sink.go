package sink

import (
	"sync"

	"github.com/polter-rnd/slimlog/buffer"
	"github.com/polter-rnd/slimlog/core"
)

// Sink consumes formatted records. Implementations must tolerate
// concurrent Message calls; a sink instance may be attached to many
// loggers at once.
type Sink interface {
	// Message renders the record and writes it to the destination.
	// The record is fully populated and outlives the call; it must
	// not be retained afterwards.
	Message(rec *core.Record) error

	// Flush forces any buffered output out.
	Flush() error
}

// bufPool pools format buffers across sinks. Oversized buffers are
// dropped instead of being kept alive by the pool.
var bufPool = sync.Pool{
	New: func() interface{} {
		return buffer.New()
	},
}

func getBuffer() *buffer.Buffer {
	buf := bufPool.Get().(*buffer.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *buffer.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufPool.Put(buf)
}
