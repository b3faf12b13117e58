// Package logger is the public API of slimlog. Most users only need
// to import this package.
//
// Loggers form a category tree. Sinks attached at one node become
// visible to every descendant through the effective sink list: the
// parent's effective list with the node's own table applied on top.
// A node opts out of an inherited sink by re-adding that exact sink
// instance locally and disabling it; levels, in contrast, never
// inherit at log time — only the originating node's gate filters.
//
//	root := logger.New("app", logger.WithSinks(console))
//	db := root.NewChild("app.db", logger.WithLevel(logger.DebugLevel))
//	db.Debugf("slow query: %s", q) // delivered to console via the root
//
// All topology mutations (AddSink, RemoveSink, SetSinkEnabled,
// SetParent, SetPropagate) are safe under concurrency: updates take
// one node lock at a time and recompute effective lists snapshot-wise,
// so no lock-order deadlock is possible. Trees that live on a single
// goroutine can skip locking entirely via WithSingleThreaded.
//
// Level checks cost one atomic load, so filtered-out calls are nearly
// free. The package initializes a default console logger; the
// package-level functions Info, Errorf, etc. delegate to it.
package logger
