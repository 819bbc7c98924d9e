// Package runlock provides the advisory lock that keeps two scheduling runs
// for the same (period, season) key from interleaving. The second run for a
// held key is rejected, not queued.
package runlock

import (
	"context"
	"errors"
	"sync"
)

// ErrHeld is returned when another run currently holds the key.
var ErrHeld = errors.New("a scheduling run is already in progress for this period and season")

// Locker acquires an advisory lock for the duration of one run. The returned
// release function is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// MemoryLocker is the in-process Locker used when runs are confined to a
// single binary.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]bool)}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] {
		return nil, ErrHeld
	}
	l.held[key] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.held, key)
		})
	}
	return release, nil
}
