package sink

import (
	"bufio"
	"sync"

	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/polter-rnd/slimlog/core"
)

// FileConfig holds configuration for a file sink. Rotation is handled
// by lumberjack underneath the write buffer.
type FileConfig struct {
	// Path of the log file. Required.
	Path string
	// MaxSizeMB rotates the file after it reaches this size (default 100).
	MaxSizeMB int
	// MaxBackups limits how many rotated files are kept (0 = all).
	MaxBackups int
	// MaxAgeDays removes rotated files older than this (0 = never).
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
	// BufferSize of the in-process write buffer (default 32KiB).
	// Records sit here until Flush, Close, or the buffer fills.
	BufferSize int
}

// File writes formatted records to a rotating log file through a write
// buffer. Flush drains the buffer; Close flushes and closes the
// underlying rotator.
type File struct {
	Base
	mu  sync.Mutex
	out *lumberjack.Logger
	bw  *bufio.Writer
}

// NewFile creates a file sink.
func NewFile(cfg FileConfig, opts ...Option) (*File, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 32 * 1024
	}
	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	s := &File{out: out, bw: bufio.NewWriterSize(out, cfg.BufferSize)}
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Message implements Sink.
func (s *File) Message(rec *core.Record) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := s.format(buf, rec); err != nil {
		return err
	}

	s.mu.Lock()
	_, err := s.bw.Write(buf.Bytes())
	s.mu.Unlock()
	return err
}

// Flush implements Sink.
func (s *File) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bw.Flush()
}

// Close flushes buffered output and closes the rotator.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return multierr.Append(s.bw.Flush(), s.out.Close())
}
