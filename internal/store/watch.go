package store

import "context"

// watcher is a single subscription to store mutations. The channel is
// buffered with capacity one and coalesces to the latest value, so a slow
// consumer only ever misses intermediate states, never the final one.
type watcher struct {
	ch chan string
}

// push delivers id to the watcher. Callers must hold the store mutex.
func (w *watcher) push(id string) {
	select {
	case w.ch <- id:
	default:
		// Drop the stale pending value and replace it with the latest.
		select {
		case <-w.ch:
		default:
		}
		w.ch <- id
	}
}

// Watch returns a channel that emits the active profile id: the current
// value immediately, then again after every committed mutation of the
// store (pointer moves, upserts, deletes). The channel is closed when ctx
// is done. Values are coalesced; every received value reflects fully
// committed state.
func (s *ProfileStore) Watch(ctx context.Context) <-chan string {
	w := &watcher{ch: make(chan string, 1)}

	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	w.push(s.state.ActiveProfileID)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.removeWatcher(w)
	}()

	return w.ch
}

// notifyLocked pushes the current active id to all watchers. Callers must
// hold the store mutex; this keeps emissions ordered with commits.
func (s *ProfileStore) notifyLocked() {
	for _, w := range s.watchers {
		w.push(s.state.ActiveProfileID)
	}
}

func (s *ProfileStore) removeWatcher(w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cand := range s.watchers {
		if cand == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			close(w.ch)
			return
		}
	}
}
