package domain

const (
	// DefaultLanguage is used for outbound translation when a conversation has no stored language yet.
	DefaultLanguage = "en"
	// LanguageKey is the key under which a channel supplies the user's language hint.
	LanguageKey = "language"
)
