// Package convctx implements the per-conversation short-term memory: a
// conversation id mapped to the id of the most recently confirmed event.
// The in-process store here is deliberately volatile; a restart loses the
// anchors and the router degrades to treating every message as new, which
// is safe because the anchor is a hint, never a source of truth.
package convctx

import (
	"context"
	"sync"
	"time"

	"github.com/planwise/planwise/internal/types/interfaces"
)

type anchor struct {
	eventID    string
	anchoredAt time.Time
}

// MemoryStore is a lock-guarded map behind the ContextStore interface.
type MemoryStore struct {
	mu      sync.RWMutex
	anchors map[int64]anchor
}

// NewMemoryStore creates an empty in-process context store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{anchors: make(map[int64]anchor)}
}

var _ interfaces.ContextStore = (*MemoryStore)(nil)

// Get returns the anchored event id for the conversation, if any.
func (s *MemoryStore) Get(_ context.Context, conversationID int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.anchors[conversationID]
	return a.eventID, ok, nil
}

// Anchor overwrites the conversation's memory wholesale. It never merges
// and never fails.
func (s *MemoryStore) Anchor(_ context.Context, conversationID int64, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[conversationID] = anchor{eventID: eventID, anchoredAt: time.Now()}
	return nil
}

// Clear drops the conversation's anchor.
func (s *MemoryStore) Clear(_ context.Context, conversationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.anchors, conversationID)
	return nil
}
