package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lestrrat-go/strftime"

	"github.com/polter-rnd/slimlog/buffer"
	"github.com/polter-rnd/slimlog/core"
)

type field uint8

const (
	fieldLiteral field = iota
	fieldCategory
	fieldLevel
	fieldFile
	fieldFunction
	fieldMessage
	fieldLine
	fieldThread
	fieldMsec
	fieldUsec
	fieldNsec
	fieldTime
)

var fieldNames = map[string]field{
	"category": fieldCategory,
	"level":    fieldLevel,
	"file":     fieldFile,
	"line":     fieldLine,
	"function": fieldFunction,
	"time":     fieldTime,
	"msec":     fieldMsec,
	"usec":     fieldUsec,
	"nsec":     fieldNsec,
	"thread":   fieldThread,
	"message":  fieldMessage,
}

// Align controls how a string field is positioned inside its width.
type Align uint8

const (
	// AlignNone leaves positioning unspecified; padding behaves as AlignLeft.
	AlignNone Align = iota
	// AlignLeft pads on the right only.
	AlignLeft
	// AlignRight pads on the left only.
	AlignRight
	// AlignCenter splits padding floor(n/2) left, remainder right.
	AlignCenter
)

// placeholder is one compiled slot: either a literal run viewing the
// pattern's text buffer, a string field with padding specs, or a
// scalar field owning a cached formatter.
type placeholder struct {
	kind     field
	off, end int // literal span into Pattern.text
	width    int
	align    Align
	fill     string
	scalar   scalarAppender
}

type scalarAppender interface {
	appendTo(buf *buffer.Buffer, rec *core.Record) error
}

// intField covers every scalar placeholder: a getter pulls the int64
// key out of the record and a CachedFormatter renders it.
type intField struct {
	get   func(*core.Record) int64
	cache *CachedFormatter[int64]
}

func (f *intField) appendTo(buf *buffer.Buffer, rec *core.Record) error {
	return f.cache.Format(buf, f.get(rec))
}

type compiler struct {
	src   string
	text  []byte
	items []placeholder
}

func (c *compiler) run() error {
	s := c.src
	i := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				c.literal("{")
				i += 2
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("%w: '{' at offset %d", ErrUnmatchedBrace, i)
			}
			inner := s[i+1 : i+1+end]
			if strings.IndexByte(inner, '{') >= 0 {
				return fmt.Errorf("%w: '{' at offset %d", ErrUnmatchedBrace, i)
			}
			if err := c.placeholder(inner, i); err != nil {
				return err
			}
			i += end + 2
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				c.literal("}")
				i += 2
				continue
			}
			return fmt.Errorf("%w: '}' at offset %d", ErrUnmatchedBrace, i)
		default:
			j := i
			for j < len(s) && s[j] != '{' && s[j] != '}' {
				j++
			}
			c.literal(s[i:j])
			i = j
		}
	}
	return nil
}

// literal appends text, merging into the previous literal run when the
// two are adjacent.
func (c *compiler) literal(s string) {
	if s == "" {
		return
	}
	off := len(c.text)
	c.text = append(c.text, s...)
	if n := len(c.items); n > 0 && c.items[n-1].kind == fieldLiteral && c.items[n-1].end == off {
		c.items[n-1].end = len(c.text)
		return
	}
	c.items = append(c.items, placeholder{kind: fieldLiteral, off: off, end: len(c.text)})
}

func (c *compiler) placeholder(inner string, pos int) error {
	name := inner
	spec := ""
	if idx := strings.IndexByte(inner, ':'); idx >= 0 {
		name, spec = inner[:idx], inner[idx+1:]
	}

	kind, ok := fieldNames[name]
	if !ok {
		return fmt.Errorf("%w: %q at offset %d", ErrUnknownField, name, pos)
	}

	switch kind {
	case fieldCategory, fieldLevel, fieldFile, fieldFunction, fieldMessage:
		fill, align, width, err := parseStringSpec(spec)
		if err != nil {
			return fmt.Errorf("%w in {%s}", err, name)
		}
		c.items = append(c.items, placeholder{kind: kind, fill: fill, align: align, width: width})
	default:
		scalar, err := newScalarField(kind, spec)
		if err != nil {
			return fmt.Errorf("%w in {%s}", err, name)
		}
		c.items = append(c.items, placeholder{kind: kind, scalar: scalar})
	}
	return nil
}

func isAlignRune(r rune) bool { return r == '<' || r == '>' || r == '^' }

func alignOf(r rune) Align {
	switch r {
	case '<':
		return AlignLeft
	case '>':
		return AlignRight
	default:
		return AlignCenter
	}
}

// parseStringSpec parses "[[fill]align][width]". The fill is a single
// code point and only exists when followed by an align character.
func parseStringSpec(spec string) (fill string, align Align, width int, err error) {
	fill = " "
	if spec == "" {
		return fill, AlignNone, 0, nil
	}

	r0, sz0 := utf8.DecodeRuneInString(spec)
	if r0 == utf8.RuneError && sz0 == 1 {
		return "", 0, 0, ErrInvalidSpec
	}
	r1, sz1 := utf8.DecodeRuneInString(spec[sz0:])
	switch {
	case sz1 > 0 && isAlignRune(r1):
		fill, align = spec[:sz0], alignOf(r1)
		spec = spec[sz0+sz1:]
	case isAlignRune(r0):
		align = alignOf(r0)
		spec = spec[sz0:]
	}

	if spec == "" {
		return fill, align, 0, nil
	}
	for i := 0; i < len(spec); i++ {
		if spec[i] < '0' || spec[i] > '9' {
			return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidWidth, spec)
		}
	}
	width, aerr := strconv.Atoi(spec)
	if aerr != nil {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidWidth, spec)
	}
	return fill, align, width, nil
}

// newScalarField builds the cached formatter for a scalar placeholder.
func newScalarField(kind field, spec string) (scalarAppender, error) {
	if kind == fieldTime {
		return newTimeField(spec)
	}

	var get func(*core.Record) int64
	def := ""
	switch kind {
	case fieldLine:
		get = func(rec *core.Record) int64 { return int64(rec.Caller.Line) }
	case fieldThread:
		get = func(rec *core.Record) int64 { return rec.ThreadID() }
	case fieldMsec:
		get = func(rec *core.Record) int64 { return int64(rec.Time.Nanosecond() / 1e6) }
		def = "03"
	case fieldUsec:
		get = func(rec *core.Record) int64 { return int64(rec.Time.Nanosecond() / 1e3) }
		def = "06"
	case fieldNsec:
		get = func(rec *core.Record) int64 { return int64(rec.Time.Nanosecond()) }
		def = "09"
	}

	if spec == "" {
		spec = def
	}
	if err := validateIntSpec(spec); err != nil {
		return nil, err
	}
	verb := "%" + spec + "d"
	return &intField{
		get: get,
		cache: NewCachedFormatter(func(dst []byte, v int64) []byte {
			return fmt.Appendf(dst, verb, v)
		}),
	}, nil
}

// validateIntSpec accepts printf integer specs: optional flags
// followed by an optional width.
func validateIntSpec(spec string) error {
	i := 0
	for i < len(spec) && strings.IndexByte("-+ 0#", spec[i]) >= 0 {
		i++
	}
	digits := spec[i:]
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
		}
	}
	if len(digits) > 0 {
		if _, err := strconv.Atoi(digits); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidWidth, digits)
		}
	}
	return nil
}

// newTimeField compiles the strftime spec once and caches renderings
// per unix second; sub-second detail belongs to msec/usec/nsec.
func newTimeField(spec string) (scalarAppender, error) {
	if spec == "" {
		spec = "%Y-%m-%d %H:%M:%S"
	}
	f, err := strftime.New(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return &intField{
		get: func(rec *core.Record) int64 { return rec.Time.Unix() },
		cache: NewCachedFormatter(func(dst []byte, sec int64) []byte {
			return append(dst, f.FormatString(time.Unix(sec, 0))...)
		}),
	}, nil
}
