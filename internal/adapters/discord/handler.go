package discord

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"translationbot/internal/application"
	"translationbot/internal/domain"
	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/input"
	pkgdiscord "translationbot/pkg/discord"
)

// ChannelID identifies activities coming through this adapter.
const ChannelID = "discord"

const turnTimeout = 30 * time.Second

// Handler turns Discord events into turns of the pipeline.
type Handler struct {
	pipeline *application.Pipeline
	bot      input.BotHandler
}

// NewHandler creates a Handler.
func NewHandler(pipeline *application.Pipeline, bot input.BotHandler) *Handler {
	return &Handler{
		pipeline: pipeline,
		bot:      bot,
	}
}

// HandleMessage answers direct messages and messages mentioning the bot.
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	botID := s.State.User.ID
	if m.GuildID != "" && !mentions(m.Message, botID) {
		return
	}

	activity := messageActivity(m.Message, botID)
	if activity.Text == "" {
		return
	}

	var hints entities.UserLanguage
	if m.GuildID != "" {
		if g, err := s.State.Guild(m.GuildID); err == nil {
			hints = languageHints(string(g.PreferredLocale))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	turn := application.NewTurn(activity, hints, &channelSender{session: s})
	if err := h.pipeline.Run(ctx, turn, h.bot); err != nil {
		log.Printf("❌ Discord turn failed (channel=%s): %v", m.ChannelID, err)
		if _, sendErr := s.ChannelMessageSendReply(m.ChannelID, pkgdiscord.DomainErrorMessage(err), m.Reference()); sendErr != nil {
			log.Printf("⚠️ Failed to report error to channel %s: %v", m.ChannelID, sendErr)
		}
	}
}

// HandleAsk runs a turn for the /ask command, using the invoking user's client
// locale as the language hint.
func (h *Handler) HandleAsk(s *discordgo.Session, i *discordgo.InteractionCreate) {
	text := strings.TrimSpace(askText(i.ApplicationCommandData()))
	if text == "" {
		respondEphemeral(s, i.Interaction, "Please type a message.")
		return
	}
	h.runInteraction(s, i.Interaction, text)
}

// HandleSuggestedAction posts the value carried by a suggested action button
// back to the bot as if the user had typed it.
func (h *Handler) HandleSuggestedAction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	text, ok := pkgdiscord.ParseSuggestedActionID(i.MessageComponentData().CustomID)
	if !ok || text == "" {
		respondEphemeral(s, i.Interaction, "This button has nothing to send.")
		return
	}
	h.runInteraction(s, i.Interaction, text)
}

func (h *Handler) runInteraction(s *discordgo.Session, i *discordgo.Interaction, text string) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("❌ Failed to acknowledge interaction %s: %v", i.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	activity := interactionActivity(i, text)
	turn := application.NewTurn(activity, languageHints(string(i.Locale)), &followupSender{session: s, interaction: i})
	if err := h.pipeline.Run(ctx, turn, h.bot); err != nil {
		log.Printf("❌ Discord interaction turn failed (channel=%s): %v", i.ChannelID, err)
		_, sendErr := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
			Content: pkgdiscord.DomainErrorMessage(err),
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if sendErr != nil {
			log.Printf("⚠️ Failed to report error for interaction %s: %v", i.ID, sendErr)
		}
	}
}

// messageActivity maps a Discord message to an activity, dropping the bot mention.
func messageActivity(m *discordgo.Message, botID string) *entities.Activity {
	a := &entities.Activity{
		Type:           entities.ActivityTypeMessage,
		ID:             m.ID,
		ChannelID:      ChannelID,
		ConversationID: m.ChannelID,
		Text:           strings.TrimSpace(stripMention(m.Content, botID)),
	}
	if m.Author != nil {
		a.From = m.Author.ID
	}
	return a
}

func interactionActivity(i *discordgo.Interaction, text string) *entities.Activity {
	a := &entities.Activity{
		Type:           entities.ActivityTypeMessage,
		ID:             i.ID,
		ChannelID:      ChannelID,
		ConversationID: i.ChannelID,
		Text:           text,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		a.From = i.Member.User.ID
	case i.User != nil:
		a.From = i.User.ID
	}
	return a
}

func mentions(m *discordgo.Message, userID string) bool {
	for _, u := range m.Mentions {
		if u != nil && u.ID == userID {
			return true
		}
	}
	return false
}

func stripMention(content, userID string) string {
	content = strings.ReplaceAll(content, "<@"+userID+">", "")
	return strings.ReplaceAll(content, "<@!"+userID+">", "")
}

// languageHints turns a Discord locale into the hints handed to the turn.
func languageHints(locale string) entities.UserLanguage {
	lang := translatorLanguage(locale)
	if lang == "" {
		return nil
	}
	return entities.UserLanguage{domain.LanguageKey: lang}
}
