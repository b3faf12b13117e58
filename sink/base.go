package sink

import (
	"sync/atomic"

	"github.com/polter-rnd/slimlog/buffer"
	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/pattern"
)

// Base carries the pattern every concrete sink formats through.
// The pattern is swapped atomically, so SetPattern and SetLevels are
// safe against concurrent Message calls.
type Base struct {
	pat atomic.Pointer[pattern.Pattern]
}

// Option configures the Base of a concrete sink.
type Option func(*Base) error

// WithPattern compiles and installs a template. Compilation errors
// fail the sink's constructor.
func WithPattern(template string) Option {
	return func(b *Base) error {
		p, err := pattern.New(template)
		if err != nil {
			return err
		}
		b.pat.Store(p)
		return nil
	}
}

// WithLevels overrides severity display names at construction.
func WithLevels(overrides map[core.Level]string) Option {
	return func(b *Base) error {
		b.pattern().SetLevelNames(overrides)
		return nil
	}
}

func (b *Base) init(opts ...Option) error {
	b.pat.Store(pattern.Must(pattern.DefaultTemplate))
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) pattern() *pattern.Pattern {
	return b.pat.Load()
}

// Pattern returns the sink's current template string.
func (b *Base) Pattern() string {
	return b.pattern().Template()
}

// SetPattern replaces the template, keeping the current level-name
// overrides. A malformed template is rejected and the old pattern
// stays in place.
func (b *Base) SetPattern(template string) error {
	old := b.pattern()
	p, err := pattern.New(template, pattern.WithLevelNames(old.LevelNames()))
	if err != nil {
		return err
	}
	b.pat.Store(p)
	return nil
}

// SetLevels overrides the display name used for the given severities.
func (b *Base) SetLevels(overrides map[core.Level]string) {
	b.pattern().SetLevelNames(overrides)
}

// format renders rec through the current pattern into buf and
// terminates the line.
func (b *Base) format(buf *buffer.Buffer, rec *core.Record) error {
	if err := b.pattern().Format(buf, rec); err != nil {
		return err
	}
	return buf.WriteByte('\n')
}
