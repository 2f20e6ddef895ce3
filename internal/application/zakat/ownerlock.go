package zakat

import (
	"sync"

	"github.com/google/uuid"
)

// ownerLocks serializes evaluations per owner. Operations for different
// owners proceed in parallel; two concurrent evaluations of the same owner
// would race on the single-tracking-record invariant.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[uuid.UUID]*ownerLock)}
}

// Acquire blocks until the owner's lock is held and returns the release
// function. Entries are dropped once the last holder releases.
func (l *ownerLocks) Acquire(ownerID uuid.UUID) func() {
	l.mu.Lock()
	lock, ok := l.locks[ownerID]
	if !ok {
		lock = &ownerLock{}
		l.locks[ownerID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, ownerID)
		}
		l.mu.Unlock()
	}
}
