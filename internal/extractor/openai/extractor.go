// Package openai implements the language-model collaborator on the OpenAI
// chat completion API. Every call is JSON-mode constrained and unmarshalled
// into a closed result struct; the router never sees raw model text.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

// Extractor talks to an OpenAI-compatible endpoint.
type Extractor struct {
	client          *goopenai.Client
	model           string
	defaultDuration time.Duration
	location        *time.Location
	now             func() time.Time
}

// NewExtractor builds the collaborator. baseURL may be empty for the
// public API; defaultDuration backfills missing end times.
func NewExtractor(apiKey, baseURL, model string, defaultDuration time.Duration, location *time.Location) *Extractor {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if location == nil {
		location = time.Local
	}
	if defaultDuration <= 0 {
		defaultDuration = time.Hour
	}
	return &Extractor{
		client:          goopenai.NewClientWithConfig(cfg),
		model:           model,
		defaultDuration: defaultDuration,
		location:        location,
		now:             time.Now,
	}
}

var _ interfaces.EventExtractor = (*Extractor)(nil)

type eventResult struct {
	Found     bool   `json:"found"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Notes     string `json:"notes"`
}

type updateResult struct {
	Verdict string `json:"verdict"`
	Changes struct {
		Title     string `json:"title"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Location  string `json:"location"`
	} `json:"changes"`
}

type batchResult struct {
	Events []eventResult `json:"events"`
}

// ExtractEvent parses one message into a structured event.
func (e *Extractor) ExtractEvent(ctx context.Context, ownerID int64, text string) (*types.Event, error) {
	date, weekday := e.dateContext()
	prompt := fmt.Sprintf(extractEventPrompt, date, weekday, text)

	var result eventResult
	if err := e.chatJSON(ctx, prompt, &result); err != nil {
		return nil, &types.ExtractionError{Reason: "event extraction call failed", Err: err}
	}
	if !result.Found {
		return nil, &types.ExtractionError{Reason: "no event found in message"}
	}

	ev, err := e.buildEvent(ownerID, result, text)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ClassifyUpdate decides whether text updates the reference event.
func (e *Extractor) ClassifyUpdate(ctx context.Context, text string, reference *types.Event) (types.UpdateDecision, error) {
	date, weekday := e.dateContext()
	end := ""
	if reference.End != nil {
		end = reference.End.In(e.location).Format("2006-01-02T15:04:05")
	}
	prompt := fmt.Sprintf(classifyUpdatePrompt, date, weekday,
		reference.Title,
		reference.Start.In(e.location).Format("2006-01-02T15:04:05"),
		end,
		reference.Location,
		text,
	)

	var result updateResult
	if err := e.chatJSON(ctx, prompt, &result); err != nil {
		return types.UpdateDecision{}, &types.ExtractionError{Reason: "update classification call failed", Err: err}
	}

	return e.buildDecision(result)
}

// ExtractEvents parses a research corpus into a batch of events.
func (e *Extractor) ExtractEvents(ctx context.Context, ownerID int64, topic string, corpus string) ([]*types.Event, error) {
	date, weekday := e.dateContext()
	prompt := fmt.Sprintf(extractBatchPrompt, date, weekday, topic, corpus)

	var result batchResult
	if err := e.chatJSON(ctx, prompt, &result); err != nil {
		return nil, &types.ExtractionError{Reason: "batch extraction call failed", Err: err}
	}

	events := make([]*types.Event, 0, len(result.Events))
	for _, res := range result.Events {
		res.Found = true
		ev, err := e.buildEvent(ownerID, res, "")
		if err != nil {
			logger.Warnf(ctx, "skipping malformed researched event %q: %v", res.Title, err)
			continue
		}
		ev.Source = types.SourceResearched
		events = append(events, ev)
	}
	return events, nil
}

// chatJSON issues one JSON-mode chat completion and unmarshals the reply.
// No retry happens here; transient failures surface to the router, which
// maps them to a failure outcome.
func (e *Extractor) chatJSON(ctx context.Context, prompt string, out interface{}) error {
	resp, err := e.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: e.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to call chat model: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat model returned no choices")
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("failed to parse chat model response: %w", err)
	}
	return nil
}

func (e *Extractor) dateContext() (string, string) {
	now := e.now().In(e.location)
	return now.Format("Monday, January 2, 2006"), e.location.String()
}

// buildEvent turns a raw model result into a validated event, backfilling
// the default duration when no end time was extracted.
func (e *Extractor) buildEvent(ownerID int64, res eventResult, rawText string) (*types.Event, error) {
	start, err := e.parseTime(res.StartTime)
	if err != nil {
		return nil, &types.ExtractionError{Reason: fmt.Sprintf("unparseable start time %q", res.StartTime), Err: err}
	}

	var end *time.Time
	if res.EndTime != "" {
		t, err := e.parseTime(res.EndTime)
		if err != nil {
			return nil, &types.ExtractionError{Reason: fmt.Sprintf("unparseable end time %q", res.EndTime), Err: err}
		}
		end = &t
	} else {
		t := start.Add(e.defaultDuration)
		end = &t
	}

	ev, err := types.NewEvent(ownerID, res.Title, start, end)
	if err != nil {
		return nil, &types.ExtractionError{Reason: "extracted event failed validation", Err: err}
	}
	ev.Location = res.Location
	ev.Notes = res.Notes
	if ev.Notes == "" {
		ev.Notes = rawText
	}
	return ev, nil
}

// buildDecision maps a raw verdict onto the closed decision set. Unknown
// verdicts read as ambiguous so the caller falls back to creation.
func (e *Extractor) buildDecision(res updateResult) (types.UpdateDecision, error) {
	switch types.UpdateDecisionKind(res.Verdict) {
	case types.DecisionIsNewEvent:
		return types.UpdateDecision{Kind: types.DecisionIsNewEvent}, nil
	case types.DecisionAmbiguous:
		return types.UpdateDecision{Kind: types.DecisionAmbiguous}, nil
	case types.DecisionIsUpdate:
	default:
		return types.UpdateDecision{Kind: types.DecisionAmbiguous}, nil
	}

	var changes types.EventChanges
	if res.Changes.Title != "" {
		title := res.Changes.Title
		changes.Title = &title
	}
	if res.Changes.StartTime != "" {
		t, err := e.parseTime(res.Changes.StartTime)
		if err != nil {
			return types.UpdateDecision{}, &types.ExtractionError{
				Reason: fmt.Sprintf("unparseable updated start time %q", res.Changes.StartTime), Err: err,
			}
		}
		changes.Start = &t
	}
	if res.Changes.EndTime != "" {
		t, err := e.parseTime(res.Changes.EndTime)
		if err != nil {
			return types.UpdateDecision{}, &types.ExtractionError{
				Reason: fmt.Sprintf("unparseable updated end time %q", res.Changes.EndTime), Err: err,
			}
		}
		changes.End = &t
	}
	if res.Changes.Location != "" {
		loc := res.Changes.Location
		changes.Location = &loc
	}

	if changes.Empty() {
		// An update with nothing to change cannot be applied safely.
		return types.UpdateDecision{Kind: types.DecisionAmbiguous}, nil
	}
	return types.UpdateDecision{Kind: types.DecisionIsUpdate, Changes: changes}, nil
}

// parseTime accepts the model's naive ISO timestamps and interprets them
// in the configured location, keeping every stored instant timezone-aware.
func (e *Extractor) parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, e.location)
}
