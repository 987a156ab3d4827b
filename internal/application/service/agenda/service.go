// Package agenda serves the read-only day listing and the destructive
// day clear. Both are stateless pass-throughs to the event repository;
// they exist so the transport layer never touches the store directly.
package agenda

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// Service exposes the day-scoped schedule operations.
type Service struct {
	repo     interfaces.EventRepository
	location *time.Location
}

// NewService builds the agenda service. location defines what "today"
// means for the Today/ClearToday helpers.
func NewService(repo interfaces.EventRepository, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{repo: repo, location: location}
}

// ListDay returns the owner's events for the given calendar day, ordered
// by start time.
func (s *Service) ListDay(ctx context.Context, ownerID int64, day time.Time) ([]types.Event, error) {
	return s.repo.ListByOwnerAndDate(ctx, ownerID, day)
}

// ClearDay removes all of the owner's events on the given day and reports
// the count. Clearing an already empty day deletes zero; the operation is
// idempotent.
func (s *Service) ClearDay(ctx context.Context, ownerID int64, day time.Time) (int64, error) {
	deleted, err := s.repo.DeleteByOwnerAndDate(ctx, ownerID, day)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "cleared %d event(s) for owner %d on %s", deleted, ownerID, day.Format("2006-01-02"))
	return deleted, nil
}

// Today resolves the current calendar day in the configured timezone.
func (s *Service) Today() time.Time {
	now := time.Now().In(s.location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}
