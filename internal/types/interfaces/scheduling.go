package interfaces

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/types"
)

// EventExtractor defines the language-model collaborator that turns chat
// text into structured scheduling data. Implementations must be safe to
// retry but the pipeline issues at most one call per stage per message.
type EventExtractor interface {
	// ExtractEvent parses a full structured event out of one message.
	ExtractEvent(ctx context.Context, ownerID int64, text string) (*types.Event, error)

	// ClassifyUpdate decides whether text updates the reference event or
	// describes an independent new one.
	ClassifyUpdate(ctx context.Context, text string, reference *types.Event) (types.UpdateDecision, error)

	// ExtractEvents parses a batch of events for a topic out of research
	// corpus text.
	ExtractEvents(ctx context.Context, ownerID int64, topic string, corpus string) ([]*types.Event, error)
}

// EventRepository defines the persistence store for events. The store,
// not the pipeline, assigns identifiers and enforces per-owner scoping.
type EventRepository interface {
	// Save persists a new event and returns it with its assigned id.
	Save(ctx context.Context, event *types.Event) (*types.Event, error)

	// GetByID fetches one event; types.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*types.Event, error)

	// ListByOwnerAndDate returns the owner's events whose start falls on
	// the given calendar day, ordered by start time.
	ListByOwnerAndDate(ctx context.Context, ownerID int64, day time.Time) ([]types.Event, error)

	// UpdateFields applies the changed fields to a stored event and
	// returns the updated row.
	UpdateFields(ctx context.Context, id string, changes types.EventChanges) (*types.Event, error)

	// SetEnrichment attaches research context to an already persisted
	// event. Enrichment never participates in update classification.
	SetEnrichment(ctx context.Context, id string, enrichment string) error

	// DeleteByOwnerAndDate removes all of the owner's events on the given
	// day and reports how many were deleted.
	DeleteByOwnerAndDate(ctx context.Context, ownerID int64, day time.Time) (int64, error)

	// ListOwnersWithEventsOnDate returns the owners that have at least one
	// event on the given day.
	ListOwnersWithEventsOnDate(ctx context.Context, day time.Time) ([]int64, error)
}

// ContextStore defines the per-conversation short-term memory. It holds
// only the id of the last confirmed event, never a copy of the event, and
// gives no durability guarantee: losing it degrades the system to treating
// every message as new.
type ContextStore interface {
	// Get returns the anchored event id for a conversation, if any.
	Get(ctx context.Context, conversationID int64) (string, bool, error)

	// Anchor records the event id as the conversation's memory,
	// overwriting any previous anchor.
	Anchor(ctx context.Context, conversationID int64, eventID string) error

	// Clear drops the conversation's anchor.
	Clear(ctx context.Context, conversationID int64) error
}

// Notifier delivers a routing outcome to a destination chat. All
// user-facing formatting belongs to the implementation.
type Notifier interface {
	Deliver(ctx context.Context, destination int64, outcome *types.RoutingOutcome) error
}

// AgendaNotifier delivers a one-day schedule listing.
type AgendaNotifier interface {
	DeliverAgenda(ctx context.Context, destination int64, day time.Time, events []types.Event) error
}

// BriefingNotifier delivers the next-day briefing.
type BriefingNotifier interface {
	DeliverBriefing(ctx context.Context, destination int64, day time.Time, events []types.Event) error
}

// Searcher defines the web search collaborator used for enrichment and
// research mode.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Enricher attaches web context to a persisted event. Enrichment runs
// after a confirmed save and its failure never changes an outcome.
type Enricher interface {
	Enrich(ctx context.Context, event *types.Event) error
}
