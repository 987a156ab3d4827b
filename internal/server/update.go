package server

import (
	"strings"

	"github.com/planwise/planwise/internal/types"
)

// Telegram webhook payload, reduced to the fields the bot cares about.
// Updates without a plain text message (edits, membership changes,
// stickers) are dropped at parse time.
type telegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *telegramMessage `json:"message"`
}

type telegramMessage struct {
	MessageID int64         `json:"message_id"`
	From      *telegramUser `json:"from"`
	Chat      *telegramChat `json:"chat"`
	Text      string        `json:"text"`
}

type telegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type telegramChat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// parseUpdate defensively extracts an inbound message and its chat type.
// ok is false for anything that is not a regular text message.
func parseUpdate(u *telegramUpdate) (types.InboundMessage, string, bool) {
	if u == nil || u.Message == nil {
		return types.InboundMessage{}, "", false
	}
	msg := u.Message
	if msg.Chat == nil || msg.From == nil {
		return types.InboundMessage{}, "", false
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return types.InboundMessage{}, "", false
	}
	return types.InboundMessage{
		ConversationID: msg.Chat.ID,
		SenderID:       msg.From.ID,
		Text:           text,
	}, msg.Chat.Type, true
}

// isGroupChat covers both "group" and "supergroup".
func isGroupChat(chatType string) bool {
	return strings.Contains(chatType, "group")
}
