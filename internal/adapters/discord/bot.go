// Package discord hosts the bot on Discord: guild mentions, direct messages,
// the /ask command and suggested action buttons all run through the pipeline.
package discord

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	pkgdiscord "translationbot/pkg/discord"
)

// Bot is the Discord adapter.
type Bot struct {
	session  *discordgo.Session
	handler  *Handler
	commands []*discordgo.ApplicationCommand
}

// NewBot creates a Bot and registers its event handlers.
func NewBot(token string, handler *Handler) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session: s,
		handler: handler,
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handler.HandleMessage)
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == askCommand.Name {
			b.handler.HandleAsk(s, i)
		}
	case discordgo.InteractionMessageComponent:
		if strings.HasPrefix(i.MessageComponentData().CustomID, pkgdiscord.SuggestedActionPrefix) {
			b.handler.HandleSuggestedAction(s, i)
		}
	}
}

// Open connects to the gateway and registers the slash commands.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	b.commands = registerCommands(b.session, b.session.State.User.ID, []*discordgo.ApplicationCommand{askCommand})
	log.Printf("🤖 Discord bot online as %s", b.session.State.User.Username)
	return nil
}

// Close unregisters the slash commands and disconnects from the gateway.
func (b *Bot) Close() error {
	unregisterCommands(b.session, b.session.State.User.ID, b.commands)
	b.commands = nil
	return b.session.Close()
}

type commandSession interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// registerCommands creates cmds globally and returns those Discord accepted.
func registerCommands(s commandSession, appID string, cmds []*discordgo.ApplicationCommand) []*discordgo.ApplicationCommand {
	var created []*discordgo.ApplicationCommand
	for _, cmd := range cmds {
		c, err := s.ApplicationCommandCreate(appID, "", cmd)
		if err != nil {
			log.Printf("⚠️ Failed to register command %s: %v", cmd.Name, err)
			continue
		}
		created = append(created, c)
	}
	return created
}

func unregisterCommands(s commandSession, appID string, cmds []*discordgo.ApplicationCommand) {
	for _, cmd := range cmds {
		if err := s.ApplicationCommandDelete(appID, "", cmd.ID); err != nil {
			log.Printf("⚠️ Failed to unregister command %s: %v", cmd.Name, err)
		}
	}
}
