package output

// T renders the bot's own user-facing messages. The bot always speaks its working
// language; translation to the user's language happens later in the send path.
type T interface {
	// T renders the message identified by key for the given locale.
	// data is an optional map used for template placeholders (may be nil).
	T(locale, key string, data map[string]any) string
}
