package entities

// UserLanguage is the per-request hint map a channel hands to the bot
// (for example the query string of a web chat URL). It is never written by the bot.
type UserLanguage map[string]string

// Get returns the value stored under key, or "".
func (u UserLanguage) Get(key string) string {
	if u == nil {
		return ""
	}
	return u[key]
}
