package pattern

import "errors"

// Compile-time template errors. New wraps these with the offending
// token and its byte offset; match with errors.Is.
var (
	// ErrUnmatchedBrace indicates a '{' without '}' or a stray '}'.
	ErrUnmatchedBrace = errors.New("pattern: unmatched brace")
	// ErrUnknownField indicates a placeholder name outside the fixed set.
	ErrUnknownField = errors.New("pattern: unknown placeholder")
	// ErrInvalidWidth indicates a width that is not a non-negative
	// integer or does not fit in an int.
	ErrInvalidWidth = errors.New("pattern: invalid width")
	// ErrInvalidSpec indicates a malformed format spec.
	ErrInvalidSpec = errors.New("pattern: invalid format spec")
)
