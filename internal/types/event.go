package types

import (
	"time"
)

// EventSource records how an event entered the system.
type EventSource string

const (
	SourceConversational EventSource = "conversational"
	SourceResearched     EventSource = "researched"
	SourceManual         EventSource = "manual"
)

// Event represents one scheduled commitment on an owner's calendar.
type Event struct {
	ID         string      `json:"id,omitempty"`
	OwnerID    int64       `json:"owner_id"`
	Title      string      `json:"title"`
	Start      time.Time   `json:"start_time"`
	End        *time.Time  `json:"end_time,omitempty"`
	Location   string      `json:"location,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	Source     EventSource `json:"source"`
	Enrichment string      `json:"enrichment,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewEvent builds a validated event. The ID stays empty until the
// repository assigns one.
func NewEvent(ownerID int64, title string, start time.Time, end *time.Time) (*Event, error) {
	ev := &Event{
		OwnerID: ownerID,
		Title:   title,
		Start:   start,
		End:     end,
		Source:  SourceConversational,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate checks the event invariants: non-empty title, a present start
// instant, and an end instant that does not precede the start.
func (e *Event) Validate() error {
	if e.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if e.Start.IsZero() {
		return &ValidationError{Field: "start_time", Reason: "must be present"}
	}
	if e.End != nil && e.End.Before(e.Start) {
		return &ValidationError{Field: "end_time", Reason: "must not precede start_time"}
	}
	return nil
}

// Day returns midnight of the event's calendar day in the start instant's
// location. Conflict scoping and agenda queries key off this value.
func (e *Event) Day() time.Time {
	y, m, d := e.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Start.Location())
}

// Clone returns a copy safe to mutate without touching the original.
func (e *Event) Clone() *Event {
	cp := *e
	if e.End != nil {
		end := *e.End
		cp.End = &end
	}
	return &cp
}

// Field names the subset of event fields that an update may change.
type Field string

const (
	FieldStart    Field = "start_time"
	FieldEnd      Field = "end_time"
	FieldLocation Field = "location"
	FieldTitle    Field = "title"
)

// EventChanges carries new values for the whitelisted updatable fields.
// A nil pointer means the field is untouched.
type EventChanges struct {
	Start    *time.Time `json:"start_time,omitempty"`
	End      *time.Time `json:"end_time,omitempty"`
	Location *string    `json:"location,omitempty"`
	Title    *string    `json:"title,omitempty"`
}

// Empty reports whether no field would change.
func (c EventChanges) Empty() bool {
	return c.Start == nil && c.End == nil && c.Location == nil && c.Title == nil
}

// TouchesSchedule reports whether the changes move the event in time,
// which forces a fresh conflict check.
func (c EventChanges) TouchesSchedule() bool {
	return c.Start != nil || c.End != nil
}

// Fields lists the fields the changes would modify, in a stable order.
func (c EventChanges) Fields() []Field {
	var fields []Field
	if c.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if c.Start != nil {
		fields = append(fields, FieldStart)
	}
	if c.End != nil {
		fields = append(fields, FieldEnd)
	}
	if c.Location != nil {
		fields = append(fields, FieldLocation)
	}
	return fields
}

// Apply writes the changed fields onto the event, leaving all others
// untouched.
func (c EventChanges) Apply(e *Event) {
	if c.Title != nil {
		e.Title = *c.Title
	}
	if c.Start != nil {
		e.Start = *c.Start
	}
	if c.End != nil {
		end := *c.End
		e.End = &end
	}
	if c.Location != nil {
		e.Location = *c.Location
	}
}
