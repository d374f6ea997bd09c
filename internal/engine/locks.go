package engine

import "sync"

// ownerLocks serializes trades per owner. Locks are reference-counted so
// idle owners do not accumulate entries; different owners never contend.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sync.Mutex
	refs int
}

func (l *ownerLocks) lock(owner string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*ownerLock)
	}
	ol := l.locks[owner]
	if ol == nil {
		ol = &ownerLock{}
		l.locks[owner] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.Lock()
	return func() {
		ol.Unlock()

		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, owner)
		}
		l.mu.Unlock()
	}
}
