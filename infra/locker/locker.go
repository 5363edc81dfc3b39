// locker/locker.go
package locker

import "sync"

// HouseLocker serializes balance mutation per house. Every allocation
// for a house runs under that house's mutex, so allocations for distinct
// houses proceed in parallel while one house's balance row only ever has
// a single writer.
type HouseLocker struct {
	mu     sync.Mutex
	houses map[int64]*sync.Mutex
}

func New() *HouseLocker {
	return &HouseLocker{
		houses: make(map[int64]*sync.Mutex),
	}
}

func (l *HouseLocker) lockFor(houseID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.houses[houseID]
	if !ok {
		m = &sync.Mutex{}
		l.houses[houseID] = m
	}
	return m
}

// Lock blocks until the house's mutex is held.
func (l *HouseLocker) Lock(houseID int64) {
	l.lockFor(houseID).Lock()
}

func (l *HouseLocker) Unlock(houseID int64) {
	l.lockFor(houseID).Unlock()
}
