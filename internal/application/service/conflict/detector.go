// Package conflict decides whether a candidate event overlaps an owner's
// existing schedule. The detector is a pure function over the events it is
// handed: callers are responsible for scoping the existing set to the same
// owner and calendar day before calling in.
package conflict

import (
	"time"

	"github.com/planwise/planwise/internal/types"
)

// DefaultDuration is assumed for any event without an end time. An
// open-ended event therefore occupies [start, start+DefaultDuration) for
// overlap purposes; leaving this implicit would silently change conflict
// results.
const DefaultDuration = time.Hour

// Detector performs half-open interval overlap tests.
type Detector struct {
	defaultDuration time.Duration
}

// NewDetector builds a detector. A non-positive duration falls back to
// DefaultDuration.
func NewDetector(defaultDuration time.Duration) *Detector {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Detector{defaultDuration: defaultDuration}
}

// FindConflicts returns the subset of existing events whose [start, end)
// interval overlaps the candidate's. Back-to-back events sharing a
// boundary instant do not conflict. The result is empty, never nil-checked
// by callers, when nothing overlaps.
func (d *Detector) FindConflicts(candidate *types.Event, existing []types.Event) []types.Event {
	candStart, candEnd := d.interval(candidate)

	var conflicts []types.Event
	for _, ev := range existing {
		if candidate.ID != "" && ev.ID == candidate.ID {
			continue
		}
		start, end := d.interval(&ev)
		if candStart.Before(end) && start.Before(candEnd) {
			conflicts = append(conflicts, ev)
		}
	}
	return conflicts
}

// interval resolves an event to its occupied [start, end) range, applying
// the default duration when no end time is stored.
func (d *Detector) interval(ev *types.Event) (time.Time, time.Time) {
	if ev.End != nil && ev.End.After(ev.Start) {
		return ev.Start, *ev.End
	}
	return ev.Start, ev.Start.Add(d.defaultDuration)
}
