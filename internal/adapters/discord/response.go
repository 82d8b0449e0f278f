package discord

import (
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
)

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	_ = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// translatorLanguage maps a Discord locale (en-US, zh-TW, no...) to the code the
// translation service expects, or "" when the locale cannot be parsed.
func translatorLanguage(locale string) string {
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		if script, _ := tag.Script(); script.String() == "Hant" {
			return "zh-Hant"
		}
		return "zh-Hans"
	case "no":
		return "nb"
	default:
		return base.String()
	}
}
