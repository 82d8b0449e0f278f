package output

import "context"

// Translator is the contract of the external translation service client.
type Translator interface {
	// Language returns the bot's working language.
	Language() string
	// Detect returns the most likely language code of text.
	Detect(ctx context.Context, text string) (string, error)
	// Translate translates text into to. It returns text unchanged when to is
	// empty or equals the working language.
	Translate(ctx context.Context, text, to string) (string, error)
	// ToBotLanguage translates text into the working language. The source
	// language is left to the service, so text in any language is handled.
	ToBotLanguage(ctx context.Context, text string) (string, error)
}
