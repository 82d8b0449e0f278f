package discord

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"translationbot/internal/domain/entities"
)

const (
	embedColor = 0x5865F2

	// Discord limits.
	maxButtonLabel   = 80
	maxCustomID      = 100
	maxButtonsPerRow = 5
	maxActionRows    = 5
	maxEmbedTitle    = 256
	maxEmbedDesc     = 4096

	// SuggestedActionPrefix marks buttons built from suggested actions.
	SuggestedActionPrefix = "suggested:"
)

// cardContent covers the fields shared by hero cards, adaptive cards and plain embeds.
type cardContent struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Text        string      `json:"text"`
	Description string      `json:"description"`
	Body        []cardBlock `json:"body"`
}

type cardBlock struct {
	Text string `json:"text"`
}

// BuildEmbeds turns card attachments into embeds. Attachments without JSON
// content or without anything to show are skipped.
func BuildEmbeds(attachments []entities.Attachment) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(attachments))
	for _, a := range attachments {
		if len(a.Content) == 0 {
			continue
		}
		var card cardContent
		if err := json.Unmarshal(a.Content, &card); err != nil {
			continue
		}

		lines := make([]string, 0, len(card.Body)+3)
		for _, s := range []string{card.Subtitle, card.Text, card.Description} {
			if s != "" {
				lines = append(lines, s)
			}
		}
		for _, b := range card.Body {
			if b.Text != "" {
				lines = append(lines, b.Text)
			}
		}
		if card.Title == "" && len(lines) == 0 {
			continue
		}

		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       Truncate(card.Title, maxEmbedTitle),
			Description: Truncate(strings.Join(lines, "\n\n"), maxEmbedDesc),
			Color:       embedColor,
		})
	}
	return embeds
}

// BuildButtons turns suggested actions into rows of buttons. Clicking a button
// posts back its value, carried in the custom ID next to the action index so
// that IDs stay unique. Actions whose value does not fit a custom ID are
// skipped rather than posting back a cut value.
func BuildButtons(actions *entities.SuggestedActions) []discordgo.MessageComponent {
	if actions == nil || len(actions.Actions) == 0 {
		return nil
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i, a := range actions.Actions {
		if len(rows) == maxActionRows {
			break
		}
		label := a.Title
		value := ""
		if s, ok := a.Value.(string); ok {
			value = s
		}
		if value == "" {
			value = label
		}
		if label == "" {
			label = value
		}
		if label == "" {
			continue
		}
		customID := SuggestedActionID(i, value)
		if len(customID) > maxCustomID {
			continue
		}

		row = append(row, discordgo.Button{
			Label:    Truncate(label, maxButtonLabel),
			Style:    discordgo.PrimaryButton,
			CustomID: customID,
		})
		if len(row) == maxButtonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 && len(rows) < maxActionRows {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

// SuggestedActionID builds the custom ID of the button for the index-th action.
func SuggestedActionID(index int, value string) string {
	return SuggestedActionPrefix + strconv.Itoa(index) + ":" + value
}

// ParseSuggestedActionID returns the value carried by a suggested action button.
func ParseSuggestedActionID(customID string) (string, bool) {
	rest, ok := strings.CutPrefix(customID, SuggestedActionPrefix)
	if !ok {
		return "", false
	}
	index, value, ok := strings.Cut(rest, ":")
	if !ok {
		return "", false
	}
	if _, err := strconv.Atoi(index); err != nil {
		return "", false
	}
	return value, true
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 character.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
