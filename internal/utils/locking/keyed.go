// Package locking provides per-key mutual exclusion with a bounded wait.
// Each campaign is the unit of serialization: transitions for one campaign ID
// run strictly sequentially while unrelated campaigns proceed in parallel.
package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fundtires/ledger_backend/internal/apperrors"
)

type entry struct {
	sem  chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

// KeyedLock hands out one mutex per key, created on demand and reclaimed when
// the last waiter releases it.
type KeyedLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyedLock creates an empty lock table.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{entries: make(map[string]*entry)}
}

// Acquire takes the lock for key, waiting at most timeout. It returns a
// release function on success, or ErrLockTimeout once the deadline passes, so
// the lock never deadlocks a caller indefinitely. Context cancellation is
// honored and reported as the context's error.
func (k *KeyedLock) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.put(key, e)
		}, nil
	case <-timer.C:
		k.put(key, e)
		return nil, fmt.Errorf("%w: key %q after %s", apperrors.ErrLockTimeout, key, timeout)
	case <-ctx.Done():
		k.put(key, e)
		return nil, ctx.Err()
	}
}

func (k *KeyedLock) put(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}
