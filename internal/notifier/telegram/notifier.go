// Package telegram delivers routing outcomes, agendas and briefings as
// HTML-formatted Telegram messages.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
	"github.com/planwise/planwise/internal/types/interfaces"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends messages through the Telegram Bot API.
type Notifier struct {
	token      string
	apiBase    string
	httpClient *http.Client
	location   *time.Location
}

// NewNotifier builds a notifier. apiBase may be empty for the public Bot
// API; location controls how instants are displayed.
func NewNotifier(token, apiBase string, location *time.Location) *Notifier {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	if location == nil {
		location = time.Local
	}
	return &Notifier{
		token:      token,
		apiBase:    apiBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		location:   location,
	}
}

var (
	_ interfaces.Notifier         = (*Notifier)(nil)
	_ interfaces.AgendaNotifier   = (*Notifier)(nil)
	_ interfaces.BriefingNotifier = (*Notifier)(nil)
)

// Deliver formats a routing outcome and sends it to the destination chat.
// Ignored outcomes produce no message: a passive group listener must not
// reply to chatter.
func (n *Notifier) Deliver(ctx context.Context, destination int64, outcome *types.RoutingOutcome) error {
	text := formatOutcome(outcome, n.location)
	if text == "" {
		return nil
	}
	return n.sendMessage(ctx, destination, text)
}

// DeliverAgenda sends a one-day schedule listing.
func (n *Notifier) DeliverAgenda(ctx context.Context, destination int64, day time.Time, events []types.Event) error {
	return n.sendMessage(ctx, destination, formatAgenda(day, events, n.location))
}

// DeliverBriefing sends the next-day briefing.
func (n *Notifier) DeliverBriefing(ctx context.Context, destination int64, day time.Time, events []types.Event) error {
	return n.sendMessage(ctx, destination, formatBriefing(day, events, n.location))
}

// DeliverText sends a pre-formatted HTML message, used for command
// acknowledgements.
func (n *Notifier) DeliverText(ctx context.Context, destination int64, text string) error {
	return n.sendMessage(ctx, destination, text)
}

// DeliverTrackReport sends the research-mode summary.
func (n *Notifier) DeliverTrackReport(ctx context.Context, destination int64, topic string, saved, skipped []types.Event) error {
	return n.sendMessage(ctx, destination, formatTrackReport(topic, saved, skipped, n.location))
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *Notifier) sendMessage(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram api: %w", err)
	}
	defer resp.Body.Close()

	var parsed sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram rejected message: %s", parsed.Description)
	}

	logger.Debugf(ctx, "delivered message to chat %d", chatID)
	return nil
}
