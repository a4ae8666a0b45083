package portal

import "sync"

// requestLocks hands out one mutex per request id so that transition
// evaluation (submit→review, agree→finalize) runs as an atomic unit per
// record and fires exactly once.
//
// Entries are never released; the workflow is human paced and the set of
// live requests is small.
type requestLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newRequestLocks() *requestLocks {
	return &requestLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *requestLocks) get(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
