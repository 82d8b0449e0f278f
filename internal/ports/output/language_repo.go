package output

import "context"

// LanguageRepository persists the language chosen for each conversation.
type LanguageRepository interface {
	Find(ctx context.Context, conversationKey string) (string, bool, error)
	Save(ctx context.Context, conversationKey, language string) error
}
