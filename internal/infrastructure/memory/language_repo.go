// Package memory keeps conversation languages in process memory. Used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"translationbot/internal/ports/output"
)

var _ output.LanguageRepository = (*LanguageRepository)(nil)

// LanguageRepository implements output.LanguageRepository with a map.
type LanguageRepository struct {
	mu        sync.RWMutex
	languages map[string]string
}

// NewLanguageRepository creates an empty LanguageRepository.
func NewLanguageRepository() *LanguageRepository {
	return &LanguageRepository{languages: make(map[string]string)}
}

func (r *LanguageRepository) Find(ctx context.Context, conversationKey string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.languages[conversationKey]
	return lang, ok, nil
}

func (r *LanguageRepository) Save(ctx context.Context, conversationKey, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.languages[conversationKey] = language
	r.mu.Unlock()
	return nil
}
