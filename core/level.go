package core

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log record
type Level int8

const (
	// TraceLevel for very fine-grained tracing output
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// FatalLevel for fatal messages (causes os.Exit(1))
	FatalLevel

	numLevels = int(FatalLevel) + 1
)

// String returns the string representation of the level
func (l Level) String() string {
	if l >= 0 && int(l) < numLevels {
		return defaultNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel converts a string to a Level. Unknown strings map to
// InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// ParseLevelStrict converts a string to a Level, rejecting unknown
// names. Configuration loading uses it so a typo fails validation
// instead of silently becoming InfoLevel.
func ParseLevelStrict(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown level %q", s)
	}
}

var defaultNames = LevelNames{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// LevelNames maps each severity to the text a pattern's {level}
// placeholder renders. Sinks can override individual entries via
// SetLevels without affecting other sinks.
type LevelNames [numLevels]string

// DefaultLevelNames returns the standard upper-case level names.
func DefaultLevelNames() LevelNames {
	return defaultNames
}

// Name returns the display name for the given level.
func (n LevelNames) Name(l Level) string {
	if l >= 0 && int(l) < numLevels {
		return n[l]
	}
	return "UNKNOWN"
}

// WithOverrides returns a copy of n with the given entries replaced.
func (n LevelNames) WithOverrides(overrides map[Level]string) LevelNames {
	out := n
	for l, name := range overrides {
		if l >= 0 && int(l) < numLevels {
			out[l] = name
		}
	}
	return out
}
