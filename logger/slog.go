package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/polter-rnd/slimlog/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so the tree can serve as a drop-in backend for log/slog.
// Attributes are flattened into the message tail as key=value pairs
// because a Record carries a single message payload.
type SlogHandler struct {
	logger *Logger
	attrs  []string // pre-rendered "key=value"
	group  string
}

// NewSlogHandler wraps l as an slog.Handler.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether the wrapped logger accepts the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.LevelEnabled(slogLevelToCore(level))
}

// Handle converts an slog.Record and delivers it through the logger.
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	for _, kv := range h.attrs {
		sb.WriteByte(' ')
		sb.WriteString(kv)
	}
	record.Attrs(func(a slog.Attr) bool {
		sb.WriteByte(' ')
		sb.WriteString(h.renderAttr(a))
		return true
	})
	return h.logger.Message(slogLevelToCore(record.Level), sb.String())
}

// WithAttrs returns a handler that carries the additional attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &SlogHandler{
		logger: h.logger,
		attrs:  make([]string, len(h.attrs), len(h.attrs)+len(attrs)),
		group:  h.group,
	}
	copy(next.attrs, h.attrs)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.renderAttr(a))
	}
	return next
}

// WithGroup returns a handler that prefixes attribute keys with the
// group name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &SlogHandler{
		logger: h.logger,
		attrs:  h.attrs,
		group:  group,
	}
}

func (h *SlogHandler) renderAttr(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + a.Key
	}
	return fmt.Sprintf("%s=%v", key, a.Value.Resolve())
}

func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}
