// Package pattern implements the template mini-language that controls
// how a record is rendered to text.
//
// A template mixes literal text with placeholders:
//
//	"{time} [{level}] {category}: {message:<40}"
//
// Recognized placeholder names are category, level, file, line,
// function, time, msec, usec, nsec, thread and message. Doubled braces
// ({{ and }}) emit literal braces. String-valued fields take an
// optional spec of the form [[fill]align][width] after a colon, where
// align is one of '<', '>' or '^' and fill is a single code point
// (default space); width counts code points. Scalar fields pass their
// spec to the underlying engine: printf integer flags for line,
// thread, msec, usec and nsec, strftime syntax for time.
//
// Compilation happens once in New and fails loudly on malformed
// templates; rendering replays the compiled placeholder list into a
// buffer. Each scalar placeholder owns a CachedFormatter so that
// repeated values (the same second, the same source line) are rendered
// once and replayed from cache.
package pattern
