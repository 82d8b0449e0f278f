package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"translationbot/internal/adapters/discord"
	"translationbot/internal/adapters/webchat"
	"translationbot/internal/application"
	"translationbot/internal/config"
	"translationbot/internal/infrastructure/database"
	"translationbot/internal/infrastructure/i18n"
	"translationbot/internal/infrastructure/translator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := database.OpenLanguageRepository(ctx, cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		log.Fatalf("❌ Failed to open language storage: %v", err)
	}
	defer closeRepo()

	client, err := translator.New(translator.Config{
		Language:   cfg.BotLanguage,
		Key:        cfg.TranslatorKey,
		Region:     cfg.TranslatorRegion,
		Endpoint:   cfg.TranslatorEndpoint,
		Categories: cfg.TranslatorCategories,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create translator client: %v", err)
	}

	middleware, err := application.NewTranslationMiddleware(client, application.NewLanguageStore(repo), application.TranslationOptions{
		DetectLanguageOnce: cfg.DetectLanguageOnce,
		GetLanguageFromURI: cfg.GetLanguageFromURI,
		Bridge:             application.ChannelDataBridge{Key: "tags", Value: "translated"},
	})
	if err != nil {
		log.Fatalf("❌ Failed to create translation middleware: %v", err)
	}

	pipeline := application.NewPipeline(middleware)
	bot := application.NewEchoBot(i18n.NewTranslator(cfg.BotLanguage), cfg.BotLanguage)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.DiscordToken != "" {
		discordBot, err := discord.NewBot(cfg.DiscordToken, discord.NewHandler(pipeline, bot))
		if err != nil {
			log.Fatalf("❌ Failed to create Discord bot: %v", err)
		}
		if err := discordBot.Open(); err != nil {
			log.Fatalf("❌ Failed to start Discord bot: %v", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			return discordBot.Close()
		})
	}

	if cfg.HTTPAddr != "" {
		server := webchat.NewServer(cfg.HTTPAddr, pipeline, bot)
		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	log.Printf("✅ Translation bot running (language=%s). Press CTRL+C to quit.", cfg.BotLanguage)
	if err := g.Wait(); err != nil {
		log.Printf("❌ Bot stopped with error: %v", err)
		closeRepo()
		os.Exit(1)
	}
	log.Println("👋 Bot stopped.")
}
