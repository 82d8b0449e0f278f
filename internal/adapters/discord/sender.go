package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/output"
	pkgdiscord "translationbot/pkg/discord"
)

// maxContentLength is Discord's limit for message content.
const maxContentLength = 2000

var errMissingMessageID = errors.New("activity has no message id to update")

var (
	_ output.ActivitySender = (*channelSender)(nil)
	_ output.ActivitySender = (*followupSender)(nil)
)

type messageSession interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type followupSession interface {
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageEdit(interaction *discordgo.Interaction, messageID string, data *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// channelSender posts replies as regular channel messages. Sent activities get
// the Discord message id so they can be updated later in the turn.
type channelSender struct {
	session messageSession
}

func (s *channelSender) Send(ctx context.Context, activities []*entities.Activity) error {
	for _, a := range activities {
		if !a.IsMessage() {
			continue
		}
		msg, err := s.session.ChannelMessageSendComplex(a.ConversationID, &discordgo.MessageSend{
			Content:    pkgdiscord.Truncate(a.Text, maxContentLength),
			Embeds:     pkgdiscord.BuildEmbeds(a.Attachments),
			Components: pkgdiscord.BuildButtons(a.SuggestedActions),
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send discord message: %w", err)
		}
		a.ID = msg.ID
	}
	return nil
}

func (s *channelSender) Update(ctx context.Context, activity *entities.Activity) error {
	if activity.ID == "" {
		return errMissingMessageID
	}
	content := pkgdiscord.Truncate(activity.Text, maxContentLength)
	embeds := pkgdiscord.BuildEmbeds(activity.Attachments)
	components := pkgdiscord.BuildButtons(activity.SuggestedActions)
	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         activity.ID,
		Channel:    activity.ConversationID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit discord message: %w", err)
	}
	return nil
}

// followupSender answers a deferred interaction with followup messages.
type followupSender struct {
	session     followupSession
	interaction *discordgo.Interaction
}

func (s *followupSender) Send(ctx context.Context, activities []*entities.Activity) error {
	for _, a := range activities {
		if !a.IsMessage() {
			continue
		}
		msg, err := s.session.FollowupMessageCreate(s.interaction, true, &discordgo.WebhookParams{
			Content:    pkgdiscord.Truncate(a.Text, maxContentLength),
			Embeds:     pkgdiscord.BuildEmbeds(a.Attachments),
			Components: pkgdiscord.BuildButtons(a.SuggestedActions),
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send followup message: %w", err)
		}
		a.ID = msg.ID
	}
	return nil
}

func (s *followupSender) Update(ctx context.Context, activity *entities.Activity) error {
	if activity.ID == "" {
		return errMissingMessageID
	}
	content := pkgdiscord.Truncate(activity.Text, maxContentLength)
	embeds := pkgdiscord.BuildEmbeds(activity.Attachments)
	components := pkgdiscord.BuildButtons(activity.SuggestedActions)
	_, err := s.session.FollowupMessageEdit(s.interaction, activity.ID, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit followup message: %w", err)
	}
	return nil
}
