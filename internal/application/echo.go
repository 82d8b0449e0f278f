package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/input"
	"translationbot/internal/ports/output"
)

var _ input.BotHandler = (*EchoBot)(nil)

// heroCardContentType is the content type of the help card attachment.
const heroCardContentType = "application/vnd.microsoft.card.hero"

// EchoBot answers in its working language only; it knows nothing about translation.
type EchoBot struct {
	messages output.T
	locale   string
}

// NewEchoBot creates an EchoBot that renders replies for locale.
func NewEchoBot(messages output.T, locale string) *EchoBot {
	return &EchoBot{messages: messages, locale: locale}
}

type heroCard struct {
	Title   string          `json:"title"`
	Text    string          `json:"text"`
	Buttons []heroCardLabel `json:"buttons,omitempty"`
}

type heroCardLabel struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

func (b *EchoBot) HandleTurn(ctx context.Context, tc input.TurnContext) error {
	activity := tc.Activity()
	if !activity.IsMessage() {
		return nil
	}

	if b.isHelp(activity.Text) {
		reply, err := b.helpReply(activity)
		if err != nil {
			return err
		}
		return tc.SendActivities(ctx, reply)
	}

	reply := activity.NewReply(b.messages.T(b.locale, "reply.echo", map[string]any{"Text": activity.Text}))
	return tc.SendActivities(ctx, reply)
}

func (b *EchoBot) helpReply(activity *entities.Activity) (*entities.Activity, error) {
	help := b.messages.T(b.locale, "reply.help.action", nil)
	card := heroCard{
		Title: b.messages.T(b.locale, "reply.help.title", nil),
		Text:  b.messages.T(b.locale, "reply.help.text", nil),
		Buttons: []heroCardLabel{
			{Type: "imBack", Title: help, Value: help},
		},
	}
	content, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal help card: %w", err)
	}

	reply := activity.NewReply(b.messages.T(b.locale, "reply.help", nil))
	reply.SuggestedActions = &entities.SuggestedActions{
		Actions: []entities.CardAction{
			{Type: "imBack", Title: help, Value: help},
		},
	}
	reply.Attachments = []entities.Attachment{
		{ContentType: heroCardContentType, Content: content},
	}
	return reply, nil
}

func (b *EchoBot) isHelp(text string) bool {
	command := b.messages.T(b.locale, "command.help", nil)
	return strings.EqualFold(strings.Trim(text, " \t\r\n.!?"), command)
}
