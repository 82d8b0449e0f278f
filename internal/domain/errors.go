package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrMissingBotLanguage      = errors.New("bot language is required")
	ErrMissingTranslatorKey    = errors.New("translator key is required")
	ErrMissingTranslatorRegion = errors.New("translator region is required")
	ErrNoDetection             = errors.New("translation service detected no language")
	ErrNoTranslation           = errors.New("translation service returned no translation")
	ErrInvalidAttachment       = errors.New("attachment content is not valid JSON")
	ErrNilTurnContext          = errors.New("turn context is nil")
)

var codes = map[error]string{
	ErrMissingBotLanguage:      "missing_bot_language",
	ErrMissingTranslatorKey:    "missing_translator_key",
	ErrMissingTranslatorRegion: "missing_translator_region",
	ErrNoDetection:             "no_detection",
	ErrNoTranslation:           "no_translation",
	ErrInvalidAttachment:       "invalid_attachment",
	ErrNilTurnContext:          "nil_turn_context",
}

// APIError is returned when the translation service answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("the call to the translation service returned HTTP status code %d", e.StatusCode)
}

// Code returns a stable string code for a domain error wrapped anywhere in err's
// chain, or "" when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("translator_http_%d", apiErr.StatusCode)
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
