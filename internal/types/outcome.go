package types

// OutcomeKind tags the result of processing one inbound message.
type OutcomeKind string

const (
	OutcomeIgnored          OutcomeKind = "ignored"
	OutcomeCreated          OutcomeKind = "created"
	OutcomeUpdated          OutcomeKind = "updated"
	OutcomeConflictBlocked  OutcomeKind = "conflict_blocked"
	OutcomeExtractionFailed OutcomeKind = "extraction_failed"
	OutcomeStoreFailed      OutcomeKind = "store_failed"
)

// RoutingOutcome is the single result the routing pipeline produces per
// inbound message, and the only channel through which it talks to the
// notifier. Exactly one kind is set; the payload fields populated depend
// on the kind.
type RoutingOutcome struct {
	Kind OutcomeKind

	// Event is the created or updated event.
	Event *Event
	// Changed lists the fields an update modified.
	Changed []Field
	// Candidate is the event that was blocked by a conflict.
	Candidate *Event
	// Conflicts are the existing events the candidate overlapped.
	Conflicts []Event
	// Reason describes an extraction or store failure.
	Reason string
}

func Ignored() *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeIgnored}
}

func Created(ev *Event) *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeCreated, Event: ev}
}

func Updated(ev *Event, changed []Field) *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeUpdated, Event: ev, Changed: changed}
}

func ConflictBlocked(candidate *Event, conflicts []Event) *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeConflictBlocked, Candidate: candidate, Conflicts: conflicts}
}

func ExtractionFailed(reason string) *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeExtractionFailed, Reason: reason}
}

func StoreFailed(reason string) *RoutingOutcome {
	return &RoutingOutcome{Kind: OutcomeStoreFailed, Reason: reason}
}

// UpdateDecisionKind is the closed set of answers the classifier may give
// when asked whether a message updates the remembered event.
type UpdateDecisionKind string

const (
	DecisionIsUpdate   UpdateDecisionKind = "is_update"
	DecisionIsNewEvent UpdateDecisionKind = "is_new_event"
	DecisionAmbiguous  UpdateDecisionKind = "ambiguous"
)

// UpdateDecision is the classifier's verdict. Changes is only meaningful
// when Kind is DecisionIsUpdate.
type UpdateDecision struct {
	Kind    UpdateDecisionKind
	Changes EventChanges
}
