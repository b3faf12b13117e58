package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/polter-rnd/slimlog/core"
)

// Watcher re-reads a configuration file when it changes and applies
// level, propagation and pattern updates to a running Tree. A file that
// fails to parse or validate is skipped; the tree keeps its last good
// configuration.
type Watcher struct {
	path     string
	tree     *Tree
	debounce time.Duration
	onApply  func(*Config)
	onError  func(error)

	fw   *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long to wait after the last change event
// before re-reading (default 200ms). Editors and atomic-rename writers
// produce event bursts; the debounce collapses them into one reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnApply registers a callback invoked after each successful
// reload.
func WithOnApply(fn func(*Config)) WatchOption {
	return func(w *Watcher) { w.onApply = fn }
}

// WithOnError registers a callback invoked when a reload is skipped.
func WithOnError(fn func(error)) WatchOption {
	return func(w *Watcher) { w.onError = fn }
}

// Watch starts watching path and applying changes to tree. The watch
// is on the parent directory, so atomic rename-into-place updates are
// seen too.
func Watch(path string, tree *Tree, opts ...WatchOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		tree:     tree,
		debounce: 200 * time.Millisecond,
		fw:       fw,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and releases the underlying file handles.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	var pending <-chan time.Time
	target := filepath.Clean(w.path)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.fail(err)
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.fail(err)
		return
	}
	w.tree.Apply(cfg)
	if w.onApply != nil {
		w.onApply(cfg)
	}
}

func (w *Watcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// Apply updates levels, propagation flags and sink patterns of already
// declared nodes from cfg. Topology changes (new categories, added or
// removed sinks) require rebuilding the tree and are ignored here.
func (t *Tree) Apply(cfg *Config) {
	for _, lc := range cfg.Loggers {
		node, ok := t.byName[lc.Category]
		if !ok {
			continue
		}
		if lc.Level != "" {
			if lvl, err := core.ParseLevelStrict(lc.Level); err == nil {
				node.SetLevel(lvl)
			}
		}
		if lc.Propagate != nil {
			node.SetPropagate(*lc.Propagate)
		}
	}
}
