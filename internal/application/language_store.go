package application

import (
	"context"
	"fmt"
	"sync"

	"translationbot/internal/ports/output"
)

// LanguageStore buffers per-conversation language changes and persists them on Commit.
type LanguageStore struct {
	repo output.LanguageRepository

	mu      sync.Mutex
	pending map[string]string
}

// NewLanguageStore creates a LanguageStore backed by repo.
func NewLanguageStore(repo output.LanguageRepository) *LanguageStore {
	return &LanguageStore{
		repo:    repo,
		pending: make(map[string]string),
	}
}

// Get returns the language for conversationKey: an uncommitted value first, then the
// persisted one, then def.
func (s *LanguageStore) Get(ctx context.Context, conversationKey, def string) (string, error) {
	s.mu.Lock()
	lang, ok := s.pending[conversationKey]
	s.mu.Unlock()
	if ok {
		return lang, nil
	}

	lang, found, err := s.repo.Find(ctx, conversationKey)
	if err != nil {
		return "", fmt.Errorf("find conversation language: %w", err)
	}
	if !found {
		return def, nil
	}
	return lang, nil
}

// Set records language for conversationKey until the next Commit.
func (s *LanguageStore) Set(conversationKey, language string) {
	s.mu.Lock()
	s.pending[conversationKey] = language
	s.mu.Unlock()
}

// Commit persists every pending change. When a save fails the remaining pending
// changes are discarded, so Get only reports what the repository holds.
func (s *LanguageStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	batch := make(map[string]string, len(s.pending))
	for k, v := range s.pending {
		batch[k] = v
	}
	s.mu.Unlock()

	for key, lang := range batch {
		if err := s.repo.Save(ctx, key, lang); err != nil {
			s.discard(batch)
			return fmt.Errorf("save conversation language: %w", err)
		}
		s.mu.Lock()
		if s.pending[key] == lang {
			delete(s.pending, key)
		}
		s.mu.Unlock()
	}
	return nil
}

// discard drops the batch's entries unless a newer Set replaced them.
func (s *LanguageStore) discard(batch map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, lang := range batch {
		if s.pending[key] == lang {
			delete(s.pending, key)
		}
	}
}
