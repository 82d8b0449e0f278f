package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const defaultMigrationsPath = "migrations"

type Config struct {
	// BotLanguage is the language the bot logic works in.
	BotLanguage        string
	TranslatorKey      string
	TranslatorRegion   string
	TranslatorEndpoint string
	// TranslatorCategories maps a language to a custom translator category id.
	TranslatorCategories map[string]string
	DetectLanguageOnce   bool
	GetLanguageFromURI   bool

	DatabaseURL    string
	MigrationsPath string

	DiscordToken string
	HTTPAddr     string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when the variables come from the environment (Docker, CI).
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BotLanguage:        getenv("BOT_LANGUAGE"),
		TranslatorKey:      getenv("TRANSLATOR_KEY"),
		TranslatorRegion:   getenv("TRANSLATOR_REGION"),
		TranslatorEndpoint: getenv("TRANSLATOR_ENDPOINT"),
		DatabaseURL:        getenv("DATABASE_URL"),
		MigrationsPath:     getenv("MIGRATIONS_PATH"),
		DiscordToken:       getenv("DISCORD_TOKEN"),
		HTTPAddr:           getenv("HTTP_ADDR"),
	}

	var err error
	if cfg.DetectLanguageOnce, err = parseBool("DETECT_LANGUAGE_ONCE", getenv("DETECT_LANGUAGE_ONCE")); err != nil {
		return nil, err
	}
	if cfg.GetLanguageFromURI, err = parseBool("GET_LANGUAGE_FROM_URI", getenv("GET_LANGUAGE_FROM_URI")); err != nil {
		return nil, err
	}
	if cfg.TranslatorCategories, err = parseCategories(getenv("TRANSLATOR_CATEGORY_ID")); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks required settings and fills defaults.
func (c *Config) validate() error {
	if strings.TrimSpace(c.BotLanguage) == "" {
		return fmt.Errorf("config: BOT_LANGUAGE is required")
	}
	lang, err := CanonicalLanguage(c.BotLanguage)
	if err != nil {
		return fmt.Errorf("config: BOT_LANGUAGE invalid (%q): %w", c.BotLanguage, err)
	}
	c.BotLanguage = lang

	if strings.TrimSpace(c.TranslatorKey) == "" {
		return fmt.Errorf("config: TRANSLATOR_KEY is required")
	}
	if strings.TrimSpace(c.TranslatorRegion) == "" {
		return fmt.Errorf("config: TRANSLATOR_REGION is required")
	}

	if c.TranslatorEndpoint != "" {
		parsed, err := url.Parse(c.TranslatorEndpoint)
		if err != nil {
			return fmt.Errorf("config: TRANSLATOR_ENDPOINT invalid (%q): %w", c.TranslatorEndpoint, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: TRANSLATOR_ENDPOINT invalid (%q): missing scheme or host", c.TranslatorEndpoint)
		}
	}

	if strings.TrimSpace(c.DiscordToken) == "" && strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN or HTTP_ADDR is required")
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = defaultMigrationsPath
	}

	return nil
}

// CanonicalLanguage normalizes a language code ("FR", "pt-br", "zh_Hans")
// to the BCP 47 form the translation service expects.
func CanonicalLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func parseBool(name, raw string) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("config: %s invalid (%q): %w", name, raw, err)
	}
	return v, nil
}

// parseCategories reads "fr=category-id,de=other-id".
func parseCategories(raw string) (map[string]string, error) {
	categories := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return categories, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		lang, id, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(lang) == "" || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("config: TRANSLATOR_CATEGORY_ID invalid entry %q (expected lang=id)", pair)
		}
		canonical, err := CanonicalLanguage(lang)
		if err != nil {
			return nil, fmt.Errorf("config: TRANSLATOR_CATEGORY_ID invalid language %q: %w", lang, err)
		}
		categories[canonical] = strings.TrimSpace(id)
	}
	return categories, nil
}
