// Package translator is the client of the Microsoft Translator Text API v3.
package translator

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"translationbot/internal/domain"
	"translationbot/internal/ports/output"
)

// DefaultEndpoint is the global Translator endpoint.
const DefaultEndpoint = "https://api.cognitive.microsofttranslator.com"

const (
	apiVersion    = "3.0"
	detectPath    = "/detect"
	translatePath = "/translate"

	headerKey     = "Ocp-Apim-Subscription-Key"
	headerRegion  = "Ocp-Apim-Subscription-Region"
	headerTraceID = "X-ClientTraceId"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// sharedHTTPClient is reused by every Client in the process.
var sharedHTTPClient = &http.Client{Timeout: 30 * time.Second}

var _ output.Translator = (*Client)(nil)

// Config holds everything needed to talk to the service.
type Config struct {
	// Language is the bot's working language.
	Language string
	Key      string
	Region   string
	// Endpoint defaults to DefaultEndpoint.
	Endpoint string
	// Categories maps a target language to a custom translator category id.
	Categories map[string]string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client calls the detect and translate endpoints.
type Client struct {
	http       *http.Client
	endpoint   string
	language   string
	key        string
	region     string
	categories map[string]string
}

// New validates cfg and returns a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Language) == "" {
		return nil, domain.ErrMissingBotLanguage
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, domain.ErrMissingTranslatorKey
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, domain.ErrMissingTranslatorRegion
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	categories := make(map[string]string, len(cfg.Categories))
	for lang, id := range cfg.Categories {
		categories[lang] = id
	}

	c := &Client{
		http:       sharedHTTPClient,
		endpoint:   endpoint,
		language:   cfg.Language,
		key:        cfg.Key,
		region:     cfg.Region,
		categories: categories,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Language returns the bot's working language.
func (c *Client) Language() string {
	return c.language
}

// Detect returns the language the service considers most likely for text.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	var results []detectResult
	if err := c.do(ctx, detectPath, url.Values{}, text, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || results[0].Language == "" {
		return "", domain.ErrNoDetection
	}
	return results[0].Language, nil
}

// Translate translates text into to. Nothing is sent when to is empty, equals the
// bot language, or text is empty.
func (c *Client) Translate(ctx context.Context, text, to string) (string, error) {
	if to == "" || to == c.language || text == "" {
		return text, nil
	}
	return c.translate(ctx, text, to)
}

// ToBotLanguage translates text into the bot language and lets the service
// detect the source. Only empty text skips the call.
func (c *Client) ToBotLanguage(ctx context.Context, text string) (string, error) {
	if text == "" {
		return text, nil
	}
	return c.translate(ctx, text, c.language)
}

func (c *Client) translate(ctx context.Context, text, to string) (string, error) {
	params := url.Values{}
	params.Set("to", to)
	if category, ok := c.categories[to]; ok && category != "" {
		params.Set("category", category)
	}

	var results []translateResult
	if err := c.do(ctx, translatePath, params, text, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return "", domain.ErrNoTranslation
	}
	return results[0].Translations[0].Text, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values, text string, out any) error {
	body, err := json.Marshal([]textItem{{Text: text}})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	params.Set("api-version", apiVersion)
	uri := c.endpoint + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set(headerKey, c.key)
	req.Header.Set(headerRegion, c.region)
	req.Header.Set(headerTraceID, traceID())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call translation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.APIError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func traceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
