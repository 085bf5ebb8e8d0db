package serviceImp

import "sync"

// plotLocks serializes mutations per plot. Entries are dropped once no
// goroutine holds or waits on them, so the map only grows with live plots.
type plotLocks struct {
	mu    sync.Mutex
	locks map[string]*plotLock
}

type plotLock struct {
	mu   sync.Mutex
	refs int
}

func newPlotLocks() *plotLocks {
	return &plotLocks{locks: make(map[string]*plotLock)}
}

// lock blocks until plotID is free and returns the matching unlock.
func (l *plotLocks) lock(plotID string) func() {
	l.mu.Lock()
	pl, ok := l.locks[plotID]
	if !ok {
		pl = &plotLock{}
		l.locks[plotID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, plotID)
		}
		l.mu.Unlock()
	}
}

func (l *plotLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
