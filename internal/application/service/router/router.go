// Package router holds the stateful decision pipeline: one inbound chat
// message goes in, exactly one routing outcome comes out. The stages are
// strictly ordered and each is a potential exit point: gate, context
// lookup, update-vs-new classification, extraction, conflict check,
// persistence, anchoring.
package router

import (
	"context"
	"errors"
	"time"

	"github.com/planwise/planwise/internal/application/service/conflict"
	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// Config tunes the pipeline. Zero values fall back to safe defaults.
type Config struct {
	// DefaultDuration is assumed for events without an end time.
	DefaultDuration time.Duration
	// ExtractTimeout bounds every extractor call.
	ExtractTimeout time.Duration
	// StoreTimeout bounds every repository call.
	StoreTimeout time.Duration
	// Keywords overrides the gate vocabulary.
	Keywords []string
}

// Router orchestrates the collaborators into the routing pipeline.
type Router struct {
	repo      interfaces.EventRepository
	contexts  interfaces.ContextStore
	extractor interfaces.EventExtractor
	notifier  interfaces.Notifier
	enricher  interfaces.Enricher

	detector *conflict.Detector
	gate     *Gate
	locks    *convLocks

	extractTimeout time.Duration
	storeTimeout   time.Duration
}

// New wires the pipeline. The enricher is optional; everything else is
// required.
func New(
	repo interfaces.EventRepository,
	contexts interfaces.ContextStore,
	extractor interfaces.EventExtractor,
	notifier interfaces.Notifier,
	enricher interfaces.Enricher,
	cfg Config,
) *Router {
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 20 * time.Second
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &Router{
		repo:           repo,
		contexts:       contexts,
		extractor:      extractor,
		notifier:       notifier,
		enricher:       enricher,
		detector:       conflict.NewDetector(cfg.DefaultDuration),
		gate:           NewGate(cfg.Keywords),
		locks:          newConvLocks(),
		extractTimeout: cfg.ExtractTimeout,
		storeTimeout:   cfg.StoreTimeout,
	}
}

// HandleMessage runs one message through the pipeline and delivers the
// outcome. The conversation is locked for the whole
// lookup-decide-persist-anchor sequence; messages from other
// conversations proceed concurrently.
func (r *Router) HandleMessage(ctx context.Context, msg types.InboundMessage) *types.RoutingOutcome {
	ctx = logger.WithFields(ctx, map[string]interface{}{
		"conversation_id": msg.ConversationID,
		"owner_id":        msg.SenderID,
	})

	if !r.gate.IsEventLike(msg.Text) {
		logger.Debugf(ctx, "message did not pass the event gate")
		return types.Ignored()
	}

	unlock := r.locks.lock(msg.ConversationID)
	outcome := r.route(ctx, msg)
	unlock()

	r.deliver(ctx, msg.ConversationID, outcome)
	return outcome
}

// route decides between the update and creation paths.
func (r *Router) route(ctx context.Context, msg types.InboundMessage) *types.RoutingOutcome {
	remembered := r.rememberedEvent(ctx, msg.ConversationID)
	if remembered == nil {
		return r.createPath(ctx, msg)
	}

	decision, err := r.classifyUpdate(ctx, msg.Text, remembered)
	if err != nil {
		// A broken classifier must not drop the message; fall through to
		// creation, the conservative branch.
		logger.Warnf(ctx, "update classification failed, treating as new event: %v", err)
		return r.createPath(ctx, msg)
	}

	switch decision.Kind {
	case types.DecisionIsUpdate:
		return r.updatePath(ctx, msg, remembered, decision.Changes)
	default:
		// IsNewEvent and Ambiguous both create: when in doubt, create
		// rather than risk corrupting an unrelated event.
		return r.createPath(ctx, msg)
	}
}

// rememberedEvent resolves the conversation's anchor to a fresh event.
// The context store holds only the id, so the event is always re-fetched;
// a missing anchor or a deleted event both read as "no context".
func (r *Router) rememberedEvent(ctx context.Context, conversationID int64) *types.Event {
	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	eventID, ok, err := r.contexts.Get(storeCtx, conversationID)
	if err != nil {
		logger.Warnf(ctx, "context lookup failed, treating as new conversation: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	ev, err := r.repo.GetByID(storeCtx, eventID)
	if errors.Is(err, types.ErrNotFound) {
		logger.Info(ctx, "anchored event %s no longer exists, treating as new conversation", eventID)
		return nil
	}
	if err != nil {
		logger.Warnf(ctx, "failed to fetch anchored event %s: %v", eventID, err)
		return nil
	}
	return ev
}

func (r *Router) classifyUpdate(ctx context.Context, text string, reference *types.Event) (types.UpdateDecision, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.extractTimeout)
	defer cancel()
	return r.extractor.ClassifyUpdate(callCtx, text, reference)
}

// createPath extracts a full event, checks conflicts, persists and
// anchors. Any failure exits without touching the existing anchor.
func (r *Router) createPath(ctx context.Context, msg types.InboundMessage) *types.RoutingOutcome {
	extractCtx, cancel := context.WithTimeout(ctx, r.extractTimeout)
	candidate, err := r.extractor.ExtractEvent(extractCtx, msg.SenderID, msg.Text)
	cancel()
	if err != nil {
		logger.Info(ctx, "extraction produced no event: %v", err)
		return types.ExtractionFailed(err.Error())
	}

	existing, err := r.sameDayEvents(ctx, candidate)
	if err != nil {
		return types.StoreFailed(err.Error())
	}
	if conflicts := r.detector.FindConflicts(candidate, existing); len(conflicts) > 0 {
		logger.Info(ctx, "candidate %q blocked by %d conflicting event(s)", candidate.Title, len(conflicts))
		return types.ConflictBlocked(candidate, conflicts)
	}

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	saved, err := r.repo.Save(storeCtx, candidate)
	cancel()
	if err != nil {
		logger.Errorf(ctx, "failed to save event: %v", err)
		return types.StoreFailed(err.Error())
	}

	r.anchor(ctx, msg.ConversationID, saved.ID)
	r.enrich(ctx, saved)

	logger.Info(ctx, "created event %s (%q)", saved.ID, saved.Title)
	return types.Created(saved)
}

// updatePath applies the whitelisted changed fields to the remembered
// event. A schedule move re-runs conflict detection against the owner's
// other events before anything is written.
func (r *Router) updatePath(ctx context.Context, msg types.InboundMessage, remembered *types.Event, changes types.EventChanges) *types.RoutingOutcome {
	candidate := remembered.Clone()
	changes.Apply(candidate)
	if err := candidate.Validate(); err != nil {
		logger.Info(ctx, "update rejected: %v", err)
		return types.ExtractionFailed(err.Error())
	}

	if changes.TouchesSchedule() {
		existing, err := r.sameDayEvents(ctx, candidate)
		if err != nil {
			return types.StoreFailed(err.Error())
		}
		// The detector skips the candidate's own id, so the event being
		// moved never conflicts with itself.
		if conflicts := r.detector.FindConflicts(candidate, existing); len(conflicts) > 0 {
			logger.Info(ctx, "update of %s blocked by %d conflicting event(s)", remembered.ID, len(conflicts))
			return types.ConflictBlocked(candidate, conflicts)
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	updated, err := r.repo.UpdateFields(storeCtx, remembered.ID, changes)
	cancel()
	if err != nil {
		logger.Errorf(ctx, "failed to update event %s: %v", remembered.ID, err)
		return types.StoreFailed(err.Error())
	}

	// Re-anchoring the same id is idempotent but refreshes the anchor's
	// freshness timestamp.
	r.anchor(ctx, msg.ConversationID, updated.ID)

	logger.Info(ctx, "updated event %s, fields %v", updated.ID, changes.Fields())
	return types.Updated(updated, changes.Fields())
}

// sameDayEvents loads the candidate owner's events on the candidate's
// calendar day. The repository does the owner and day scoping; the
// detector stays pure.
func (r *Router) sameDayEvents(ctx context.Context, candidate *types.Event) ([]types.Event, error) {
	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	existing, err := r.repo.ListByOwnerAndDate(storeCtx, candidate.OwnerID, candidate.Day())
	if err != nil {
		logger.Errorf(ctx, "failed to list same-day events: %v", err)
		return nil, err
	}
	return existing, nil
}

// anchor records the event as the conversation's memory. It only ever
// runs after a confirmed successful write; its own failure is logged and
// tolerated because the anchor is a hint, not a source of truth.
func (r *Router) anchor(ctx context.Context, conversationID int64, eventID string) {
	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	if err := r.contexts.Anchor(storeCtx, conversationID, eventID); err != nil {
		logger.Warnf(ctx, "failed to anchor event %s: %v", eventID, err)
	}
}

// enrich attaches web context to a saved event. Best effort only.
func (r *Router) enrich(ctx context.Context, ev *types.Event) {
	if r.enricher == nil {
		return
	}
	if err := r.enricher.Enrich(ctx, ev); err != nil {
		logger.Warnf(ctx, "enrichment of event %s failed: %v", ev.ID, err)
	}
}

// deliver hands the outcome to the notifier. Delivery problems are logged
// and never affect the outcome; a single message's failure must not
// cascade.
func (r *Router) deliver(ctx context.Context, destination int64, outcome *types.RoutingOutcome) {
	if err := r.notifier.Deliver(ctx, destination, outcome); err != nil {
		logger.Errorf(ctx, "failed to deliver %s outcome: %v", outcome.Kind, err)
	}
}
