// Package buffer provides the byte buffer used by the pattern renderer
// and sinks.
//
// Unlike bytes.Buffer it has a documented growth contract: inline
// storage of InlineSize bytes with no allocation at all for short
// messages, and heap growth to max(n, cap+cap/2) once the inline array
// is exceeded. A per-buffer capacity limit can be set, in which case
// over-limit growth fails with ErrTooLarge instead of truncating.
package buffer
