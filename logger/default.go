package logger

import (
	"sync/atomic"

	"github.com/polter-rnd/slimlog/sink"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	console, err := sink.NewConsole(sink.ConsoleConfig{})
	if err != nil {
		panic(err)
	}
	defaultLogger.Store(New("root", WithSinks(console)))
}

// Default returns the package-level root logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the package-level root logger.
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
}

// Trace logs a message at TraceLevel on the default logger.
func Trace(msg string) { Default().Trace(msg) }

// Debug logs a message at DebugLevel on the default logger.
func Debug(msg string) { Default().Debug(msg) }

// Info logs a message at InfoLevel on the default logger.
func Info(msg string) { Default().Info(msg) }

// Warn logs a message at WarnLevel on the default logger.
func Warn(msg string) { Default().Warn(msg) }

// Error logs a message at ErrorLevel on the default logger.
func Error(msg string) { Default().Error(msg) }

// Fatal logs a message at FatalLevel on the default logger and exits.
func Fatal(msg string) { Default().Fatal(msg) }

// Tracef logs a formatted message at TraceLevel on the default logger.
func Tracef(format string, args ...interface{}) { Default().Tracef(format, args...) }

// Debugf logs a formatted message at DebugLevel on the default logger.
func Debugf(format string, args ...interface{}) { Default().Debugf(format, args...) }

// Infof logs a formatted message at InfoLevel on the default logger.
func Infof(format string, args ...interface{}) { Default().Infof(format, args...) }

// Warnf logs a formatted message at WarnLevel on the default logger.
func Warnf(format string, args ...interface{}) { Default().Warnf(format, args...) }

// Errorf logs a formatted message at ErrorLevel on the default logger.
func Errorf(format string, args ...interface{}) { Default().Errorf(format, args...) }

// Fatalf logs a formatted message at FatalLevel on the default logger
// and exits.
func Fatalf(format string, args ...interface{}) { Default().Fatalf(format, args...) }
