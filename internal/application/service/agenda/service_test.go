package agenda

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/application/repository/memrepo"
	"github.com/planwise/planwise/internal/types"
)

func seed(t *testing.T, repo *memrepo.Repository, owner int64, title string, start time.Time) {
	t.Helper()
	end := start.Add(time.Hour)
	_, err := repo.Save(context.Background(), &types.Event{
		OwnerID: owner,
		Title:   title,
		Start:   start,
		End:     &end,
		Source:  types.SourceConversational,
	})
	require.NoError(t, err)
}

func TestListDayOrdersByStart(t *testing.T) {
	repo := memrepo.New()
	svc := NewService(repo, time.UTC)
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	seed(t, repo, 1, "Gym Session", day.Add(16*time.Hour))
	seed(t, repo, 1, "CS2103T Lecture", day.Add(9*time.Hour))
	seed(t, repo, 1, "Team Meeting", day.Add(14*time.Hour))
	seed(t, repo, 2, "Someone Else", day.Add(10*time.Hour))

	events, err := svc.ListDay(context.Background(), 1, day)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "CS2103T Lecture", events[0].Title)
	assert.Equal(t, "Team Meeting", events[1].Title)
	assert.Equal(t, "Gym Session", events[2].Title)
}

func TestClearDayThenListIsEmpty(t *testing.T) {
	repo := memrepo.New()
	svc := NewService(repo, time.UTC)
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	seed(t, repo, 1, "a", day.Add(9*time.Hour))
	seed(t, repo, 1, "b", day.Add(11*time.Hour))

	deleted, err := svc.ClearDay(context.Background(), 1, day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	events, err := svc.ListDay(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClearDayIsIdempotent(t *testing.T) {
	repo := memrepo.New()
	svc := NewService(repo, time.UTC)
	day := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	seed(t, repo, 1, "a", day.Add(9*time.Hour))

	first, err := svc.ClearDay(context.Background(), 1, day)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)

	second, err := svc.ClearDay(context.Background(), 1, day)
	require.NoError(t, err)
	assert.EqualValues(t, 0, second)
}
