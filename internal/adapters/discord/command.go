package discord

import (
	"github.com/bwmarrin/discordgo"
)

const askOptionText = "text"

var askCommand = &discordgo.ApplicationCommand{
	Name:        "ask",
	Description: "Talk to the bot in your own language",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        askOptionText,
			Description: "Your message",
			Required:    true,
			MaxLength:   maxContentLength,
		},
	},
}

// askText returns the text option of an /ask invocation.
func askText(data discordgo.ApplicationCommandInteractionData) string {
	for _, opt := range data.Options {
		if opt.Name == askOptionText && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
