// Package briefing sends each owner their next-day schedule. The nightly
// run is triggered by cron; ForceBriefing serves the on-demand command.
package briefing

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// Service fans the briefing out to every owner with events tomorrow.
type Service struct {
	repo     interfaces.EventRepository
	notifier interfaces.BriefingNotifier
	location *time.Location
	now      func() time.Time
}

// NewService builds the briefing service.
func NewService(repo interfaces.EventRepository, notifier interfaces.BriefingNotifier, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{repo: repo, notifier: notifier, location: location, now: time.Now}
}

// Run sends tomorrow's briefing to every owner that has events. One
// owner's failure is logged and counted, never aborting the fan-out.
func (s *Service) Run(ctx context.Context) {
	tomorrow := s.tomorrow()
	logger.Info(ctx, "nightly briefing starting for %s", tomorrow.Format("2006-01-02"))

	owners, err := s.repo.ListOwnersWithEventsOnDate(ctx, tomorrow)
	if err != nil {
		logger.Errorf(ctx, "briefing aborted, failed to list owners: %v", err)
		return
	}
	if len(owners) == 0 {
		logger.Info(ctx, "no owners have events tomorrow, briefing complete")
		return
	}

	var sent, failed int
	for _, owner := range owners {
		if err := s.SendBriefing(ctx, owner, tomorrow); err != nil {
			logger.Errorf(ctx, "briefing for owner %d failed: %v", owner, err)
			failed++
			continue
		}
		sent++
	}
	logger.Info(ctx, "nightly briefing done: %d sent, %d failed", sent, failed)
}

// SendBriefing delivers one owner's schedule for the given day.
func (s *Service) SendBriefing(ctx context.Context, ownerID int64, day time.Time) error {
	events, err := s.repo.ListByOwnerAndDate(ctx, ownerID, day)
	if err != nil {
		return err
	}
	return s.notifier.DeliverBriefing(ctx, ownerID, day, events)
}

// ForceBriefing sends tomorrow's briefing to one owner on demand, even
// when the schedule is empty.
func (s *Service) ForceBriefing(ctx context.Context, ownerID int64) error {
	return s.SendBriefing(ctx, ownerID, s.tomorrow())
}

func (s *Service) tomorrow() time.Time {
	now := s.now().In(s.location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location).AddDate(0, 0, 1)
}
