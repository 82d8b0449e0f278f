package discord

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"translationbot/internal/domain/entities"
)

type fakeSession struct {
	sent   []*discordgo.MessageSend
	edits  []*discordgo.MessageEdit
	params []*discordgo.WebhookParams
	hooks  []*discordgo.WebhookEdit
	err    error
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "msg-" + channelID, ChannelID: channelID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeSession) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, data)
	return &discordgo.Message{ID: "followup-1"}, nil
}

func (f *fakeSession) FollowupMessageEdit(interaction *discordgo.Interaction, messageID string, data *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.hooks = append(f.hooks, data)
	return &discordgo.Message{ID: messageID}, nil
}

func reply(text string) *entities.Activity {
	return &entities.Activity{
		Type:           entities.ActivityTypeMessage,
		ChannelID:      ChannelID,
		ConversationID: "chan-1",
		Text:           text,
	}
}

func TestChannelSender_Send(t *testing.T) {
	fake := &fakeSession{}
	sender := &channelSender{session: fake}

	msg := reply(strings.Repeat("a", maxContentLength+10))
	msg.SuggestedActions = &entities.SuggestedActions{Actions: []entities.CardAction{{Type: "imBack", Title: "Oui", Value: "oui"}}}
	msg.Attachments = []entities.Attachment{{ContentType: "application/vnd.microsoft.card.hero", Content: json.RawMessage(`{"title":"Aide"}`)}}
	typing := &entities.Activity{Type: entities.ActivityTypeTyping, ConversationID: "chan-1"}

	if err := sender.Send(context.Background(), []*entities.Activity{typing, msg}); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	got := fake.sent[0]
	if len(got.Content) != maxContentLength {
		t.Errorf("content length = %d, want %d", len(got.Content), maxContentLength)
	}
	if len(got.Embeds) != 1 || len(got.Components) != 1 {
		t.Errorf("embeds = %d, components = %d, want 1 and 1", len(got.Embeds), len(got.Components))
	}
	if msg.ID != "msg-chan-1" {
		t.Errorf("activity ID = %q, want msg-chan-1", msg.ID)
	}
}

func TestChannelSender_Update(t *testing.T) {
	fake := &fakeSession{}
	sender := &channelSender{session: fake}

	if err := sender.Update(context.Background(), reply("hi")); !errors.Is(err, errMissingMessageID) {
		t.Errorf("Update() error = %v, want %v", err, errMissingMessageID)
	}

	msg := reply("Bonjour")
	msg.ID = "msg-9"
	if err := sender.Update(context.Background(), msg); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	edit := fake.edits[0]
	if edit.ID != "msg-9" || edit.Channel != "chan-1" || *edit.Content != "Bonjour" {
		t.Errorf("edit = %+v", edit)
	}
}

func TestChannelSender_Error(t *testing.T) {
	boom := errors.New("boom")
	sender := &channelSender{session: &fakeSession{err: boom}}

	if err := sender.Send(context.Background(), []*entities.Activity{reply("hi")}); !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want %v", err, boom)
	}
}

func TestFollowupSender(t *testing.T) {
	fake := &fakeSession{}
	sender := &followupSender{session: fake, interaction: &discordgo.Interaction{ID: "int-1"}}

	msg := reply("Bonjour")
	if err := sender.Send(context.Background(), []*entities.Activity{msg}); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if len(fake.params) != 1 || fake.params[0].Content != "Bonjour" {
		t.Fatalf("followups = %+v", fake.params)
	}
	if msg.ID != "followup-1" {
		t.Errorf("activity ID = %q, want followup-1", msg.ID)
	}

	msg.Text = "Salut"
	if err := sender.Update(context.Background(), msg); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if len(fake.hooks) != 1 || *fake.hooks[0].Content != "Salut" {
		t.Errorf("edits = %+v", fake.hooks)
	}
}
