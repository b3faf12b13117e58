package pattern

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/polter-rnd/slimlog/buffer"
	"github.com/polter-rnd/slimlog/core"
)

// DefaultTemplate is the pattern used by sinks that were not given one.
const DefaultTemplate = "{time} [{level}] {category}: {message}"

// Pattern is a compiled message template: an ordered list of literal
// runs and typed placeholders replayed into a buffer per record.
// A Pattern is immutable after compilation except for the level-name
// table, which can be swapped atomically at any time.
type Pattern struct {
	template string
	text     []byte
	items    []placeholder
	names    atomic.Pointer[core.LevelNames]
}

// Option configures pattern compilation.
type Option func(*Pattern)

// WithLevelNames sets the initial severity display names.
func WithLevelNames(names core.LevelNames) Option {
	return func(p *Pattern) {
		n := names
		p.names.Store(&n)
	}
}

// New compiles a template. Malformed templates fail here with one of
// the Err* sentinels; a Pattern that compiled always renders. An empty
// template renders the message field alone.
func New(template string, opts ...Option) (*Pattern, error) {
	src := template
	if src == "" {
		src = "{message}"
	}
	c := compiler{src: src}
	if err := c.run(); err != nil {
		return nil, err
	}

	p := &Pattern{template: template, text: c.text, items: c.items}
	names := core.DefaultLevelNames()
	p.names.Store(&names)
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Must is New that panics on compile errors; for constant templates.
func Must(template string, opts ...Option) *Pattern {
	p, err := New(template, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Template returns the source template string.
func (p *Pattern) Template() string { return p.template }

// LevelNames returns the current severity display names.
func (p *Pattern) LevelNames() core.LevelNames { return *p.names.Load() }

// SetLevelNames overrides the display name of the given severities,
// leaving the rest untouched.
func (p *Pattern) SetLevelNames(overrides map[core.Level]string) {
	names := p.names.Load().WithOverrides(overrides)
	p.names.Store(&names)
}

// Format renders rec into buf by replaying the compiled placeholder
// list in order. Buffer growth failures abort the render and propagate.
func (p *Pattern) Format(buf *buffer.Buffer, rec *core.Record) error {
	names := p.names.Load()
	for i := range p.items {
		ph := &p.items[i]
		switch ph.kind {
		case fieldLiteral:
			if _, err := buf.Write(p.text[ph.off:ph.end]); err != nil {
				return err
			}
		case fieldLine, fieldThread, fieldMsec, fieldUsec, fieldNsec, fieldTime:
			if err := ph.scalar.appendTo(buf, rec); err != nil {
				return err
			}
		default:
			var v string
			switch ph.kind {
			case fieldCategory:
				v = rec.Category
			case fieldLevel:
				v = names.Name(rec.Level)
			case fieldFile:
				v = rec.Caller.File
			case fieldFunction:
				v = rec.Caller.Function
			case fieldMessage:
				v = rec.Message
			}
			if err := appendPadded(buf, v, ph); err != nil {
				return err
			}
		}
	}
	return nil
}

// appendPadded writes a string field honoring width, alignment and
// fill. Width counts Unicode code points, not bytes. Values carrying
// invalid UTF-8 are transcoded during the append so that sink output
// is always valid UTF-8.
func appendPadded(buf *buffer.Buffer, v string, ph *placeholder) error {
	if !utf8.ValidString(v) {
		v = strings.ToValidUTF8(v, "�")
	}
	if ph.width == 0 {
		_, err := buf.WriteString(v)
		return err
	}

	pad := ph.width - utf8.RuneCountInString(v)
	if pad <= 0 {
		_, err := buf.WriteString(v)
		return err
	}

	var left int
	switch ph.align {
	case AlignRight:
		left = pad
	case AlignCenter:
		left = pad / 2
	}
	if err := appendFill(buf, ph.fill, left); err != nil {
		return err
	}
	if _, err := buf.WriteString(v); err != nil {
		return err
	}
	return appendFill(buf, ph.fill, pad-left)
}

// appendFill writes the fill pattern n times, constructing the
// repetition by doubling copies so long pads cost O(log n) copy calls.
func appendFill(buf *buffer.Buffer, fill string, n int) error {
	if n <= 0 {
		return nil
	}
	if fill == "" {
		fill = " "
	}
	out := make([]byte, n*len(fill))
	copy(out, fill)
	for done := len(fill); done < len(out); done *= 2 {
		copy(out[done:], out[:done])
	}
	_, err := buf.Write(out)
	return err
}
