package types

// InboundMessage is one chat message handed to the routing pipeline.
// ConversationID is the chat the message arrived in; SenderID is the
// calendar owner the message belongs to. The two are distinct: a group
// conversation carries events for the individual sender.
type InboundMessage struct {
	ConversationID int64
	SenderID       int64
	Text           string
}

// SearchResult is one hit from the web search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
