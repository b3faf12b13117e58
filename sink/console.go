package sink

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/polter-rnd/slimlog/core"
)

// ANSI sequences per severity, indexed by core.Level.
var levelColors = [...]string{
	core.TraceLevel: "\x1b[90m", // bright black
	core.DebugLevel: "\x1b[36m", // cyan
	core.InfoLevel:  "\x1b[32m", // green
	core.WarnLevel:  "\x1b[33m", // yellow
	core.ErrorLevel: "\x1b[31m", // red
	core.FatalLevel: "\x1b[35m", // magenta
}

const colorReset = "\x1b[0m"

// ConsoleConfig holds configuration for a console sink.
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout).
	Writer io.Writer
	// Color forces per-level ANSI coloring on or off. When nil,
	// coloring is enabled iff the writer is a terminal.
	Color *bool
}

// Console writes formatted records to a terminal or any io.Writer,
// serializing writes with a mutex so interleaved records never mix.
type Console struct {
	Base
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsole creates a console sink.
func NewConsole(cfg ConsoleConfig, opts ...Option) (*Console, error) {
	s := &Console{w: cfg.Writer}
	if s.w == nil {
		s.w = os.Stdout
	}
	if cfg.Color != nil {
		s.color = *cfg.Color
	} else if f, ok := s.w.(*os.File); ok {
		s.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Message implements Sink.
func (s *Console) Message(rec *core.Record) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if s.color {
		if int(rec.Level) < len(levelColors) {
			buf.WriteString(levelColors[rec.Level])
		}
		if err := s.format(buf, rec); err != nil {
			return err
		}
		// Insert the reset before the trailing newline.
		if err := buf.Resize(buf.Len() - 1); err != nil {
			return err
		}
		buf.WriteString(colorReset)
		buf.WriteByte('\n')
	} else if err := s.format(buf, rec); err != nil {
		return err
	}

	s.mu.Lock()
	_, err := s.w.Write(buf.Bytes())
	s.mu.Unlock()
	return err
}

// Flush implements Sink. Console output is unbuffered; Flush forwards
// to the writer's Sync if it has one.
func (s *Console) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Syncing the standard streams fails with ENOTTY/EINVAL on most
	// platforms and means nothing there anyway.
	if s.w == os.Stdout || s.w == os.Stderr {
		return nil
	}
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
