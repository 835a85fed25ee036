package booking

import "sync"

// roomLocks hands out one mutex per room id so the overlap check and
// the booking write behave atomically against other reservation
// attempts on the same room. Rooms never contend with each other.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (l *roomLocks) forRoom(roomID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	return m
}
