package logger

import (
	"slices"
	"weak"

	"github.com/polter-rnd/slimlog/sink"
)

// refresh recomputes this node's effective sink list and recurses into
// its live children. The protocol is snapshot-based and never holds
// two node locks at once: read-lock the parent to copy its effective
// list, release, write-lock self to merge and store, release, then
// recurse on a children snapshot. The visited set turns traversal of a
// cyclic topology (a caller error) into a no-op instead of livelock.
func (l *Logger) refresh(visited map[*Logger]struct{}) {
	if _, seen := visited[l]; seen {
		return
	}
	visited[l] = struct{}{}

	l.mu.RLock()
	parent := l.parent
	prop := l.propagate
	l.mu.RUnlock()

	var inherited []sink.Sink
	if parent != nil && prop {
		parent.mu.RLock()
		inherited = slices.Clone(parent.effective)
		parent.mu.RUnlock()
	}

	l.mu.Lock()
	eff := inherited
	for _, e := range l.own {
		i := slices.Index(eff, e.s)
		switch {
		case e.enabled && i < 0:
			eff = append(eff, e.s)
		case !e.enabled && i >= 0:
			eff = slices.Delete(eff, i, i+1)
		}
	}
	l.effective = eff
	kids := l.liveChildrenLocked()
	l.mu.Unlock()

	for _, kid := range kids {
		kid.refresh(visited)
	}
}

// liveChildrenLocked returns the live children and prunes expired weak
// references in place. Caller holds the write lock.
func (l *Logger) liveChildrenLocked() []*Logger {
	kids := make([]*Logger, 0, len(l.children))
	live := l.children[:0]
	for _, w := range l.children {
		if c := w.Value(); c != nil {
			kids = append(kids, c)
			live = append(live, w)
		}
	}
	l.children = live
	return kids
}

// addChild registers c as a weak child of l.
func (l *Logger) addChild(c *Logger) {
	ref := weak.Make(c)
	l.mu.Lock()
	live := l.children[:0]
	for _, w := range l.children {
		if w.Value() != nil {
			live = append(live, w)
		}
	}
	l.children = append(live, ref)
	l.mu.Unlock()
}

// removeChild drops c (and any expired references) from l's children.
func (l *Logger) removeChild(c *Logger) {
	l.mu.Lock()
	live := l.children[:0]
	for _, w := range l.children {
		if v := w.Value(); v != nil && v != c {
			live = append(live, w)
		}
	}
	l.children = live
	l.mu.Unlock()
}
