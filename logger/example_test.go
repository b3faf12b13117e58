package logger_test

import (
	"os"

	"github.com/polter-rnd/slimlog/logger"
	"github.com/polter-rnd/slimlog/sink"
)

func Example() {
	console, _ := sink.NewStream(os.Stdout,
		sink.WithPattern("[{level}] {category}: {message}"))

	root := logger.New("app",
		logger.WithSinks(console),
		logger.WithCaller(false))
	db := root.NewChild("app.db", logger.WithLevel(logger.DebugLevel))

	root.Info("starting up")
	db.Debug("pool sized")
	db.Trace("never shown")

	// Output:
	// [INFO] app: starting up
	// [DEBUG] app.db: pool sized
}

func ExampleLogger_SetSinkEnabled() {
	console, _ := sink.NewStream(os.Stdout,
		sink.WithPattern("{category}: {message}"))

	root := logger.New("app", logger.WithSinks(console), logger.WithCaller(false))
	noisy := root.NewChild("app.noisy")

	// Opt the child out of the inherited console sink.
	noisy.AddSink(console)
	noisy.SetSinkEnabled(console, false)

	root.Info("visible")
	noisy.Info("suppressed")

	// Output:
	// app: visible
}
