package router

import "sync"

// convLocks provides per-conversation mutual exclusion. Two messages
// racing in the same conversation would otherwise both pass a conflict
// check against a stale snapshot or anchor inconsistent state.
type convLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newConvLocks() *convLocks {
	return &convLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the conversation's mutex and returns its unlock func.
func (l *convLocks) lock(conversationID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[conversationID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[conversationID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
