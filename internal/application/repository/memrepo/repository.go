// Package memrepo is an in-memory event repository. It backs tests and
// local development where no Postgres instance is available, and keeps the
// same contract as the durable store: it assigns identifiers, scopes
// queries per owner, and orders day listings by start time.
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// Repository stores events in a mutex-guarded map.
type Repository struct {
	mu     sync.RWMutex
	events map[string]*types.Event
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{events: make(map[string]*types.Event)}
}

var _ interfaces.EventRepository = (*Repository)(nil)

// Save validates the event, assigns it an id and persists it.
func (r *Repository) Save(_ context.Context, event *types.Event) (*types.Event, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	stored := event.Clone()
	stored.ID = uuid.New().String()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	r.mu.Lock()
	r.events[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

// GetByID fetches one event by id.
func (r *Repository) GetByID(_ context.Context, id string) (*types.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return ev.Clone(), nil
}

// ListByOwnerAndDate returns the owner's events starting on the given
// calendar day, ordered by start time.
func (r *Repository) ListByOwnerAndDate(_ context.Context, ownerID int64, day time.Time) ([]types.Event, error) {
	dayStart, dayEnd := dayWindow(day)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.Event
	for _, ev := range r.events {
		if ev.OwnerID != ownerID {
			continue
		}
		if ev.Start.Before(dayStart) || !ev.Start.Before(dayEnd) {
			continue
		}
		out = append(out, *ev.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// UpdateFields applies the changed fields to a stored event.
func (r *Repository) UpdateFields(_ context.Context, id string, changes types.EventChanges) (*types.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return nil, types.ErrNotFound
	}

	updated := ev.Clone()
	changes.Apply(updated)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	r.events[id] = updated
	return updated.Clone(), nil
}

// SetEnrichment attaches research context to a persisted event.
func (r *Repository) SetEnrichment(_ context.Context, id string, enrichment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return types.ErrNotFound
	}
	ev.Enrichment = enrichment
	return nil
}

// DeleteByOwnerAndDate removes all of the owner's events on the given day.
func (r *Repository) DeleteByOwnerAndDate(_ context.Context, ownerID int64, day time.Time) (int64, error) {
	dayStart, dayEnd := dayWindow(day)

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, ev := range r.events {
		if ev.OwnerID != ownerID {
			continue
		}
		if ev.Start.Before(dayStart) || !ev.Start.Before(dayEnd) {
			continue
		}
		delete(r.events, id)
		deleted++
	}
	return deleted, nil
}

// ListOwnersWithEventsOnDate returns the owners that have at least one
// event on the given day.
func (r *Repository) ListOwnersWithEventsOnDate(_ context.Context, day time.Time) ([]int64, error) {
	dayStart, dayEnd := dayWindow(day)

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]bool)
	var owners []int64
	for _, ev := range r.events {
		if ev.Start.Before(dayStart) || !ev.Start.Before(dayEnd) {
			continue
		}
		if !seen[ev.OwnerID] {
			seen[ev.OwnerID] = true
			owners = append(owners, ev.OwnerID)
		}
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners, nil
}

// dayWindow resolves a day to its half-open [midnight, midnight+24h)
// range in the day's own location.
func dayWindow(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}
