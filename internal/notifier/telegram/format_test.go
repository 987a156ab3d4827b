package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/planwise/planwise/internal/types"
)

var testLoc = time.UTC

func ev(title string, start time.Time, dur time.Duration, location string) types.Event {
	end := start.Add(dur)
	return types.Event{ID: "id-" + title, Title: title, Start: start, End: &end, Location: location}
}

func TestFormatCreatedEscapesHTML(t *testing.T) {
	start := time.Date(2026, 1, 24, 14, 0, 0, 0, testLoc)
	e := ev("Demo <script>", start, time.Hour, "COM1 & friends")

	got := formatCreated(&e, testLoc)

	assert.Contains(t, got, "Demo &lt;script&gt;")
	assert.Contains(t, got, "COM1 &amp; friends")
	assert.Contains(t, got, "2026-01-24 14:00 - 15:00")
	assert.NotContains(t, got, "<script>")
}

func TestFormatUpdatedListsChangedFields(t *testing.T) {
	start := time.Date(2026, 1, 24, 15, 0, 0, 0, testLoc)
	e := ev("Team Meeting", start, time.Hour, "")

	got := formatUpdated(&e, []types.Field{types.FieldStart, types.FieldLocation}, testLoc)

	assert.Contains(t, got, "Event Updated")
	assert.Contains(t, got, "start time, location")
}

func TestFormatConflictListsBlockers(t *testing.T) {
	start := time.Date(2026, 1, 24, 14, 0, 0, 0, testLoc)
	cand := ev("New Meeting", start, time.Hour, "")
	blocker := ev("Existing Standup", start.Add(30*time.Minute), time.Hour, "")

	got := formatConflict(&cand, []types.Event{blocker}, testLoc)

	assert.Contains(t, got, "Schedule Conflict")
	assert.Contains(t, got, "New Meeting")
	assert.Contains(t, got, "Existing Standup")
	assert.Contains(t, got, "Nothing was saved")
}

func TestFormatOutcomeFailureMessages(t *testing.T) {
	got := formatOutcome(types.ExtractionFailed("no event"), testLoc)
	assert.Contains(t, got, "couldn't make out an event")

	got = formatOutcome(types.StoreFailed("db down"), testLoc)
	assert.Contains(t, got, "Nothing was saved")
}

func TestFormatOutcomeIgnoredIsSilent(t *testing.T) {
	assert.Empty(t, formatOutcome(types.Ignored(), testLoc))
}

func TestFormatBriefing(t *testing.T) {
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, testLoc)
	events := []types.Event{
		ev("CS2103T Lecture", day.Add(9*time.Hour), time.Hour, "I3 Auditorium"),
		ev("Team Meeting", day.Add(14*time.Hour), time.Hour, ""),
		ev("Gym Session", day.Add(16*time.Hour), time.Hour, ""),
	}

	got := formatBriefing(day, events, testLoc)

	assert.Contains(t, got, "Tomorrow's Schedule")
	assert.Contains(t, got, "Sunday, January 18, 2026")
	assert.Contains(t, got, "<b>3</b> events")
	assert.Contains(t, got, "<b>09:00</b> - CS2103T Lecture")
	assert.Contains(t, got, "I3 Auditorium")
	assert.Contains(t, got, "productive day")
}

func TestFormatBriefingEmpty(t *testing.T) {
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, testLoc)

	got := formatBriefing(day, nil, testLoc)

	assert.Contains(t, got, "No events scheduled")
}

func TestFormatAgendaEmptyAndPopulated(t *testing.T) {
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, testLoc)

	empty := formatAgenda(day, nil, testLoc)
	assert.Contains(t, empty, "Nothing scheduled")

	populated := formatAgenda(day, []types.Event{
		ev("Dinner & Drinks", day.Add(19*time.Hour), 2*time.Hour, "UTown"),
	}, testLoc)
	assert.Contains(t, populated, "<b>19:00</b> - Dinner &amp; Drinks")
	assert.Contains(t, populated, "UTown")
}

func TestFormatRangeAcrossDays(t *testing.T) {
	start := time.Date(2026, 2, 15, 23, 59, 0, 0, testLoc)
	end := start.Add(2 * time.Minute)

	got := formatRange(start, &end, testLoc)
	assert.Equal(t, "2026-02-15 23:59 - 2026-02-16 00:01", got)
}

func TestFormatTrackReport(t *testing.T) {
	day := time.Date(2026, 2, 15, 9, 0, 0, 0, testLoc)
	saved := []types.Event{ev("Tutorial Registration", day, time.Hour, "")}
	skipped := []types.Event{ev("Clashing Deadline", day, time.Hour, "")}

	got := formatTrackReport("CS2103 deadlines", saved, skipped, testLoc)
	assert.Contains(t, got, "CS2103 deadlines")
	assert.Contains(t, got, "Tutorial Registration")
	assert.Contains(t, got, "Skipped <b>1</b>")

	if !strings.Contains(got, "Clashing Deadline") {
		t.Fatalf("skipped event missing from report: %s", got)
	}
}
