// Package research implements active research mode: a topic is searched
// on the web, the result text is parsed into a batch of events, and each
// event lands on the owner's calendar unless it collides with something
// already there. It also enriches freshly created events with a web link.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planwise/planwise/internal/application/service/conflict"
	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

const (
	searchResultLimit = 3
	enrichResultLimit = 1
)

// Report summarizes one research run.
type Report struct {
	// Saved are the events persisted to the owner's calendar.
	Saved []types.Event
	// Skipped are extracted events dropped because they conflicted with
	// the owner's existing schedule.
	Skipped []types.Event
}

// Service runs topic research and event enrichment.
type Service struct {
	repo      interfaces.EventRepository
	extractor interfaces.EventExtractor
	searcher  interfaces.Searcher
	detector  *conflict.Detector
}

// NewService builds the research service.
func NewService(
	repo interfaces.EventRepository,
	extractor interfaces.EventExtractor,
	searcher interfaces.Searcher,
	defaultDuration time.Duration,
) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		searcher:  searcher,
		detector:  conflict.NewDetector(defaultDuration),
	}
}

var _ interfaces.Enricher = (*Service)(nil)

// Track searches the web for a topic and saves every extracted,
// non-conflicting event to the owner's calendar.
func (s *Service) Track(ctx context.Context, ownerID int64, topic string) (*Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic must not be empty")
	}

	results, err := s.searcher.Search(ctx, topic+" schedule deadlines dates", searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search topic: %w", err)
	}

	var corpus strings.Builder
	for _, res := range results {
		corpus.WriteString(res.Content)
		corpus.WriteString("\n")
	}
	if strings.TrimSpace(corpus.String()) == "" {
		logger.Info(ctx, "research for %q found no result content", topic)
		return &Report{}, nil
	}

	events, err := s.extractor.ExtractEvents(ctx, ownerID, topic, corpus.String())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "research for %q extracted %d event(s)", topic, len(events))

	report := &Report{}
	for _, ev := range events {
		existing, err := s.repo.ListByOwnerAndDate(ctx, ownerID, ev.Day())
		if err != nil {
			return nil, err
		}
		if conflicts := s.detector.FindConflicts(ev, existing); len(conflicts) > 0 {
			logger.Info(ctx, "skipping researched event %q, conflicts with %d existing", ev.Title, len(conflicts))
			report.Skipped = append(report.Skipped, *ev)
			continue
		}
		saved, err := s.repo.Save(ctx, ev)
		if err != nil {
			// Keep going; one bad row must not lose the whole batch.
			logger.Errorf(ctx, "failed to save researched event %q: %v", ev.Title, err)
			continue
		}
		report.Saved = append(report.Saved, *saved)
	}
	return report, nil
}

// Enrich searches for context about a persisted event and attaches the
// top hit. Errors are returned but callers treat them as non-fatal.
func (s *Service) Enrich(ctx context.Context, event *types.Event) error {
	query := strings.TrimSpace(event.Title + " " + event.Location + " official site or map")
	results, err := s.searcher.Search(ctx, query, enrichResultLimit)
	if err != nil {
		return fmt.Errorf("failed to search for enrichment: %w", err)
	}
	if len(results) == 0 {
		return nil
	}

	enrichment := fmt.Sprintf("%s (%s)", results[0].Title, results[0].URL)
	if err := s.repo.SetEnrichment(ctx, event.ID, enrichment); err != nil {
		return err
	}
	event.Enrichment = enrichment
	return nil
}
