package locker

import "sync"

// RunLocker keeps cron workers from picking up the same reconcile run
// twice. Try-acquire semantics: a run stays marked until the worker
// releases it.
type RunLocker struct {
	mu           sync.Mutex
	inProcessMap map[int64]bool
}

func NewRunLocker() *RunLocker {
	return &RunLocker{
		inProcessMap: make(map[int64]bool),
	}
}

// TryAcquire marks the run as in process; false when another worker
// already holds it.
func (l *RunLocker) TryAcquire(runID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inProcessMap[runID] {
		return false
	}
	l.inProcessMap[runID] = true
	return true
}

func (l *RunLocker) Release(runID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, runID)
}
