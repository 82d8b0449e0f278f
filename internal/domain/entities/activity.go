package entities

import "encoding/json"

// Activity types.
const (
	ActivityTypeMessage = "message"
	ActivityTypeTyping  = "typing"
	ActivityTypeEvent   = "event"
)

// Activity is one unit of traffic between a user and the bot.
type Activity struct {
	Type             string            `json:"type"`
	ID               string            `json:"id,omitempty"`
	ChannelID        string            `json:"channelId,omitempty"`
	ConversationID   string            `json:"conversationId,omitempty"`
	From             string            `json:"from,omitempty"`
	ReplyToID        string            `json:"replyToId,omitempty"`
	Text             string            `json:"text,omitempty"`
	SuggestedActions *SuggestedActions `json:"suggestedActions,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	ChannelData      map[string]any    `json:"channelData,omitempty"`
}

// IsMessage reports whether the activity carries user-visible message content.
func (a *Activity) IsMessage() bool {
	return a != nil && a.Type == ActivityTypeMessage
}

// SuggestedActions are quick replies offered to the user alongside a message.
type SuggestedActions struct {
	Actions []CardAction `json:"actions"`
}

// CardAction is a clickable action. Value is whatever the channel posts back when clicked.
type CardAction struct {
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Attachment holds rich content as raw JSON (cards, embeds).
type Attachment struct {
	ContentType string          `json:"contentType"`
	Name        string          `json:"name,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// NewReply builds a message activity addressed to the same conversation as a.
func (a *Activity) NewReply(text string) *Activity {
	return &Activity{
		Type:           ActivityTypeMessage,
		ChannelID:      a.ChannelID,
		ConversationID: a.ConversationID,
		ReplyToID:      a.ID,
		Text:           text,
	}
}
