package benchmark

import (
	"fmt"
	"os"
	"testing"

	"github.com/polter-rnd/slimlog/core"
	"github.com/polter-rnd/slimlog/logger"
	"github.com/polter-rnd/slimlog/pattern"
	"github.com/polter-rnd/slimlog/sink"
)

func newDiscardSink(b *testing.B, opts ...sink.Option) sink.Sink {
	b.Helper()
	s, err := sink.NewDiscard(opts...)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// Benchmark logger creation
func BenchmarkLoggerCreation(b *testing.B) {
	s := newDiscardSink(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = logger.New("bench", logger.WithSinks(s))
	}
}

// Benchmark child creation (attaches to the tree and refreshes the
// effective sink list)
func BenchmarkChildCreation(b *testing.B) {
	root := logger.New("bench", logger.WithSinks(newDiscardSink(b)))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = root.NewChild("bench.child")
	}
}

// Benchmark basic Info logging
func BenchmarkInfo(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(newDiscardSink(b)),
		logger.WithCaller(false))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Info("test message")
	}
}

// Benchmark formatted Info logging
func BenchmarkInfof(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(newDiscardSink(b)),
		logger.WithCaller(false))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Infof("test message %d %s", i, "value")
	}
}

// Benchmark disabled level (testing early exit optimization)
func BenchmarkDisabledLevel(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(newDiscardSink(b)),
		logger.WithLevel(core.ErrorLevel))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Debug("debug message")
	}
}

func BenchmarkDisabledLevelFormatted(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(newDiscardSink(b)),
		logger.WithLevel(core.ErrorLevel))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Debugf("debug message %d", i)
	}
}

// Benchmark logging with caller info
func BenchmarkWithCaller(b *testing.B) {
	tests := []struct {
		name   string
		caller bool
	}{
		{"WithoutCaller", false},
		{"WithCaller", true},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			log := logger.New("bench",
				logger.WithSinks(newDiscardSink(b)),
				logger.WithCaller(tt.caller))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark different pattern placeholders
func BenchmarkPatterns(b *testing.B) {
	tests := []struct {
		name     string
		template string
	}{
		{"MessageOnly", "{message}"},
		{"Default", pattern.DefaultTemplate},
		{"Padded", "{level:^10} {category:>20} {message}"},
		{"TimeHeavy", "{time:%Y-%m-%dT%H:%M:%S}.{msec} {message}"},
		{"Thread", "[{thread}] {message}"},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			log := logger.New("bench",
				logger.WithSinks(newDiscardSink(b, sink.WithPattern(tt.template))))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark sync vs async sink
func BenchmarkSyncVsAsync(b *testing.B) {
	b.Run("Sync", func(b *testing.B) {
		log := logger.New("bench",
			logger.WithSinks(newDiscardSink(b)),
			logger.WithCaller(false))

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})

	b.Run("Async", func(b *testing.B) {
		a := sink.NewAsync(newDiscardSink(b), sink.AsyncConfig{QueueSize: 10000})
		defer a.Close()
		log := logger.New("bench",
			logger.WithSinks(a),
			logger.WithCaller(false))

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})
}

// Benchmark different queue sizes for the async sink
func BenchmarkAsyncQueueSizes(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("QueueSize%d", size), func(b *testing.B) {
			a := sink.NewAsync(newDiscardSink(b), sink.AsyncConfig{QueueSize: size})
			defer a.Close()
			log := logger.New("bench",
				logger.WithSinks(a),
				logger.WithCaller(false))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark fanout to multiple sinks
func BenchmarkSinkFanout(b *testing.B) {
	counts := []int{1, 2, 5, 10}

	for _, count := range counts {
		b.Run(fmt.Sprintf("%dSinks", count), func(b *testing.B) {
			sinks := make([]sink.Sink, count)
			for i := range sinks {
				sinks[i] = newDiscardSink(b)
			}
			log := logger.New("bench",
				logger.WithSinks(sinks...),
				logger.WithCaller(false))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark propagation depth (record delivered through inherited sinks)
func BenchmarkTreeDepth(b *testing.B) {
	depths := []int{1, 5, 10, 20}

	for _, depth := range depths {
		b.Run(fmt.Sprintf("Depth%d", depth), func(b *testing.B) {
			log := logger.New("l", logger.WithSinks(newDiscardSink(b)), logger.WithCaller(false))
			for i := 0; i < depth; i++ {
				log = log.NewChild(fmt.Sprintf("l.%d", i))
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark single-threaded execution policy vs locking
func BenchmarkExecutionPolicies(b *testing.B) {
	b.Run("ThreadSafe", func(b *testing.B) {
		log := logger.New("bench",
			logger.WithSinks(newDiscardSink(b)),
			logger.WithCaller(false))

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})

	b.Run("SingleThreaded", func(b *testing.B) {
		log := logger.New("bench",
			logger.WithSinks(newDiscardSink(b)),
			logger.WithCaller(false),
			logger.WithSingleThreaded())

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})
}

// Benchmark coarse clock vs standard clock
func BenchmarkCoarseClock(b *testing.B) {
	b.Run("Standard", func(b *testing.B) {
		log := logger.New("bench",
			logger.WithSinks(newDiscardSink(b)),
			logger.WithCaller(false))

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})

	b.Run("CoarseClock", func(b *testing.B) {
		log := logger.New("bench",
			logger.WithSinks(newDiscardSink(b)),
			logger.WithCaller(false),
			logger.WithCoarseClock())

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			log.Info("test message")
		}
	})
}

// Benchmark the raw front-end without formatting
func BenchmarkNoopSink(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(noopSink{}),
		logger.WithCaller(false))

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel log")
		}
	})
}

// Benchmark large message handling
func BenchmarkLargeMessages(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"Small_50B", 50},
		{"Medium_500B", 500},
		{"Large_5KB", 5000},
		{"VeryLarge_50KB", 50000},
	}

	for _, sz := range sizes {
		b.Run(sz.name, func(b *testing.B) {
			log := logger.New("bench",
				logger.WithSinks(newDiscardSink(b)),
				logger.WithCaller(false))

			message := string(make([]byte, sz.size))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info(message)
			}
		})
	}
}

// Benchmark file sink (writing to an actual file through the write
// buffer and rotator)
func BenchmarkFileSink(b *testing.B) {
	tmpFile, err := os.CreateTemp("", "slimlog_benchmark_*.log")
	if err != nil {
		b.Fatal(err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	s, err := sink.NewFile(sink.FileConfig{Path: tmpFile.Name()})
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	log := logger.New("bench",
		logger.WithSinks(s),
		logger.WithCaller(false))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Infof("test message %d", i)
	}
}

// Benchmark overflow policies under a saturated queue
func BenchmarkOverflowPolicies(b *testing.B) {
	tests := []struct {
		name   string
		policy sink.OverflowPolicy
	}{
		{"DropNewest", sink.DropNewest},
		{"DropOldest", sink.DropOldest},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			a := sink.NewAsync(newDiscardSink(b), sink.AsyncConfig{
				QueueSize: 1,
				Policies: map[core.Level]sink.OverflowPolicy{
					core.InfoLevel: tt.policy,
				},
			})
			defer a.Close()
			log := logger.New("bench",
				logger.WithSinks(a),
				logger.WithCaller(false))

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark all log levels in sequence (realistic usage)
func BenchmarkAllLevelsSequence(b *testing.B) {
	log := logger.New("bench",
		logger.WithSinks(newDiscardSink(b)),
		logger.WithLevel(core.TraceLevel),
		logger.WithCaller(false))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Trace("trace message")
		log.Debug("debug message")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")
	}
}
