package discord

import (
	"strings"

	"translationbot/internal/domain"
)

// TranslateDomainError maps a domain error code to a user-facing message.
func TranslateDomainError(code string) string {
	switch {
	case code == "no_detection":
		return "Sorry, I could not tell which language that message is written in."
	case code == "no_translation":
		return "Sorry, the translation service returned nothing for that message."
	case code == "invalid_attachment":
		return "Sorry, a card in my reply could not be translated."
	case code == "translator_http_401", code == "translator_http_403":
		return "The translation service rejected my credentials."
	case code == "translator_http_429":
		return "The translation service is busy, please try again in a moment."
	case strings.HasPrefix(code, "translator_http_"):
		return "The translation service is unavailable right now."
	default:
		return "Something went wrong."
	}
}

// DomainErrorMessage extracts the domain error code and resolves it to a
// user-facing message.
func DomainErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return TranslateDomainError(domain.Code(err))
}
