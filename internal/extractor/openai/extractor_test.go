package openai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/types"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	e := NewExtractor("test-key", "", "test-model", time.Hour, loc)
	e.now = func() time.Time {
		return time.Date(2026, 1, 23, 12, 0, 0, 0, loc)
	}
	return e
}

func TestBuildEventBackfillsDefaultDuration(t *testing.T) {
	e := testExtractor(t)

	ev, err := e.buildEvent(7, eventResult{
		Found:     true,
		Title:     "Team Meeting",
		StartTime: "2026-01-24T14:00:00",
		Location:  "COM1",
	}, "Meeting tomorrow 2pm at COM1")
	require.NoError(t, err)

	assert.Equal(t, "Team Meeting", ev.Title)
	assert.Equal(t, 14, ev.Start.In(e.location).Hour())
	require.NotNil(t, ev.End)
	assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
	assert.Equal(t, "COM1", ev.Location)
	assert.Equal(t, "Meeting tomorrow 2pm at COM1", ev.Notes)
}

func TestBuildEventKeepsExtractedEnd(t *testing.T) {
	e := testExtractor(t)

	ev, err := e.buildEvent(7, eventResult{
		Found:     true,
		Title:     "Lecture",
		StartTime: "2026-01-24T14:00:00",
		EndTime:   "2026-01-24T16:00:00",
	}, "")
	require.NoError(t, err)

	require.NotNil(t, ev.End)
	assert.Equal(t, 2*time.Hour, ev.End.Sub(ev.Start))
}

func TestBuildEventRejectsBadTimes(t *testing.T) {
	e := testExtractor(t)

	_, err := e.buildEvent(7, eventResult{Found: true, Title: "x", StartTime: "whenever"}, "")
	var exErr *types.ExtractionError
	require.ErrorAs(t, err, &exErr)

	_, err = e.buildEvent(7, eventResult{
		Found:     true,
		Title:     "x",
		StartTime: "2026-01-24T14:00:00",
		EndTime:   "2026-01-24T13:00:00",
	}, "")
	require.ErrorAs(t, err, &exErr)
}

func TestBuildDecisionVerdicts(t *testing.T) {
	e := testExtractor(t)

	var res updateResult
	res.Verdict = "is_new_event"
	dec, err := e.buildDecision(res)
	require.NoError(t, err)
	assert.Equal(t, types.DecisionIsNewEvent, dec.Kind)

	res.Verdict = "ambiguous"
	dec, err = e.buildDecision(res)
	require.NoError(t, err)
	assert.Equal(t, types.DecisionAmbiguous, dec.Kind)

	res.Verdict = "something else entirely"
	dec, err = e.buildDecision(res)
	require.NoError(t, err)
	assert.Equal(t, types.DecisionAmbiguous, dec.Kind)
}

func TestBuildDecisionUpdateChanges(t *testing.T) {
	e := testExtractor(t)

	var res updateResult
	res.Verdict = "is_update"
	res.Changes.StartTime = "2026-01-24T15:00:00"
	dec, err := e.buildDecision(res)
	require.NoError(t, err)

	assert.Equal(t, types.DecisionIsUpdate, dec.Kind)
	require.NotNil(t, dec.Changes.Start)
	assert.Equal(t, 15, dec.Changes.Start.In(e.location).Hour())
	assert.Nil(t, dec.Changes.End)
	assert.Nil(t, dec.Changes.Title)
	assert.Equal(t, []types.Field{types.FieldStart}, dec.Changes.Fields())
}

func TestBuildDecisionUpdateWithoutChangesIsAmbiguous(t *testing.T) {
	e := testExtractor(t)

	var res updateResult
	res.Verdict = "is_update"
	dec, err := e.buildDecision(res)
	require.NoError(t, err)
	assert.Equal(t, types.DecisionAmbiguous, dec.Kind)
}

func TestParseTimeAcceptsRFC3339AndNaiveISO(t *testing.T) {
	e := testExtractor(t)

	t1, err := e.parseTime("2026-01-24T14:00:00+08:00")
	require.NoError(t, err)
	assert.Equal(t, 14, t1.Hour())

	t2, err := e.parseTime("2026-01-24T14:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Singapore", t2.Location().String())
	assert.True(t, t1.Equal(t2))
}
