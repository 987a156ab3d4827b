package briefing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/application/repository/memrepo"
	"github.com/planwise/planwise/internal/types"
)

type recordingBriefingNotifier struct {
	failFor   map[int64]bool
	delivered map[int64][]types.Event
}

func newRecordingNotifier() *recordingBriefingNotifier {
	return &recordingBriefingNotifier{
		failFor:   make(map[int64]bool),
		delivered: make(map[int64][]types.Event),
	}
}

func (n *recordingBriefingNotifier) DeliverBriefing(_ context.Context, dest int64, _ time.Time, events []types.Event) error {
	if n.failFor[dest] {
		return errors.New("chat unreachable")
	}
	n.delivered[dest] = events
	return nil
}

func fixedService(repo *memrepo.Repository, notifier *recordingBriefingNotifier) *Service {
	svc := NewService(repo, notifier, time.UTC)
	svc.now = func() time.Time {
		return time.Date(2026, 1, 17, 21, 0, 0, 0, time.UTC)
	}
	return svc
}

func seed(t *testing.T, repo *memrepo.Repository, owner int64, title string, start time.Time) {
	t.Helper()
	end := start.Add(time.Hour)
	_, err := repo.Save(context.Background(), &types.Event{
		OwnerID: owner, Title: title, Start: start, End: &end,
		Source: types.SourceConversational,
	})
	require.NoError(t, err)
}

func TestRunDeliversToOwnersWithEventsTomorrow(t *testing.T) {
	repo := memrepo.New()
	notifier := newRecordingNotifier()
	svc := fixedService(repo, notifier)

	tomorrow := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)
	seed(t, repo, 1, "Lecture", tomorrow.Add(9*time.Hour))
	seed(t, repo, 1, "Dinner", tomorrow.Add(19*time.Hour))
	seed(t, repo, 2, "Gym", tomorrow.Add(7*time.Hour))
	seed(t, repo, 3, "Day After", tomorrow.Add(26*time.Hour))

	svc.Run(context.Background())

	require.Len(t, notifier.delivered, 2)
	assert.Len(t, notifier.delivered[1], 2)
	assert.Equal(t, "Lecture", notifier.delivered[1][0].Title)
	assert.Len(t, notifier.delivered[2], 1)
	_, got := notifier.delivered[3]
	assert.False(t, got)
}

func TestRunSurvivesPerOwnerFailures(t *testing.T) {
	repo := memrepo.New()
	notifier := newRecordingNotifier()
	notifier.failFor[1] = true
	svc := fixedService(repo, notifier)

	tomorrow := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)
	seed(t, repo, 1, "Lecture", tomorrow.Add(9*time.Hour))
	seed(t, repo, 2, "Gym", tomorrow.Add(7*time.Hour))

	svc.Run(context.Background())

	// Owner 2 still receives theirs despite owner 1 failing.
	assert.Len(t, notifier.delivered[2], 1)
}

func TestForceBriefingSendsEvenWhenEmpty(t *testing.T) {
	repo := memrepo.New()
	notifier := newRecordingNotifier()
	svc := fixedService(repo, notifier)

	require.NoError(t, svc.ForceBriefing(context.Background(), 42))

	events, got := notifier.delivered[42]
	assert.True(t, got)
	assert.Empty(t, events)
}
