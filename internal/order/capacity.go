package order

import (
	"sync"

	"github.com/google/uuid"
)

// vendorLocks serializes capacity-sensitive transitions per vendor inside
// this process. The row lock taken in the transaction covers other processes.
type vendorLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*vendorLock
}

type vendorLock struct {
	sync.Mutex
	refs int
}

func newVendorLocks() *vendorLocks {
	return &vendorLocks{locks: make(map[uuid.UUID]*vendorLock)}
}

// Lock blocks until the vendor's lock is held and returns its release func.
func (v *vendorLocks) Lock(vendorID uuid.UUID) func() {
	v.mu.Lock()
	l, ok := v.locks[vendorID]
	if !ok {
		l = &vendorLock{}
		v.locks[vendorID] = l
	}
	l.refs++
	v.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		v.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(v.locks, vendorID)
		}
		v.mu.Unlock()
	}
}

func (v *vendorLocks) size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.locks)
}
