package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"translationbot/internal/domain"
	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/output"
)

var errTranslate = errors.New("translate failed")

// fakeTranslator behaves like the translator client: it only "calls the service"
// when the target differs from its working language.
type fakeTranslator struct {
	language string
	detected string
	// dictionary maps target language -> source text -> translation.
	dictionary map[string]map[string]string
	// failOn makes Translate fail for this source text.
	failOn string
	// detectErr is returned by Detect when set.
	detectErr error

	mu          sync.Mutex
	detectCalls int
	calls       []string
}

func newFakeTranslator(language string) *fakeTranslator {
	return &fakeTranslator{
		language: language,
		detected: "fr",
		dictionary: map[string]map[string]string{
			"fr": {"Hello": "Bonjour", "Yes": "Oui", "No": "Non", "Help": "Aide", "help": "aide"},
			"en": {"Bonjour": "Hello", "Salut": "Hi"},
		},
	}
}

func (f *fakeTranslator) Language() string { return f.language }

func (f *fakeTranslator) Detect(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.detectCalls++
	f.mu.Unlock()
	if f.detectErr != nil {
		return "", f.detectErr
	}
	return f.detected, nil
}

func (f *fakeTranslator) Translate(ctx context.Context, text, to string) (string, error) {
	if to == "" || to == f.language || text == "" {
		return text, nil
	}
	return f.call(ctx, text, to)
}

func (f *fakeTranslator) ToBotLanguage(ctx context.Context, text string) (string, error) {
	if text == "" {
		return text, nil
	}
	return f.call(ctx, text, f.language)
}

func (f *fakeTranslator) call(ctx context.Context, text, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%s", to, text))
	f.mu.Unlock()

	if f.failOn != "" && text == f.failOn {
		return "", fmt.Errorf("%w: %w", errTranslate, &domain.APIError{StatusCode: 401})
	}
	if t, ok := f.dictionary[to][text]; ok {
		return t, nil
	}
	if to == f.language {
		// Unknown text is taken to be in the working language already.
		return text, nil
	}
	return "[" + to + "] " + text, nil
}

func (f *fakeTranslator) detectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detectCalls
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingSender captures what reaches the channel.
type recordingSender struct {
	mu      sync.Mutex
	batches [][]*entities.Activity
	updates []*entities.Activity
	err     error
}

func (s *recordingSender) Send(ctx context.Context, activities []*entities.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, activities)
	return nil
}

func (s *recordingSender) Update(ctx context.Context, activity *entities.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, activity)
	return nil
}

func (s *recordingSender) sent() []*entities.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.Activity
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

// failingRepo fails every Save.
type failingRepo struct {
	output.LanguageRepository
	err error
}

func (r failingRepo) Save(ctx context.Context, conversationKey, language string) error {
	return r.err
}

// recordingBridge counts bridged messages.
type recordingBridge struct {
	mu      sync.Mutex
	bridged []*entities.Activity
}

func (b *recordingBridge) BridgeMessage(activity *entities.Activity) {
	b.mu.Lock()
	b.bridged = append(b.bridged, activity)
	b.mu.Unlock()
}

func messageActivity(text string) *entities.Activity {
	return &entities.Activity{
		Type:           entities.ActivityTypeMessage,
		ID:             "act-1",
		ChannelID:      "test",
		ConversationID: "conv-1",
		From:           "user-1",
		Text:           text,
	}
}
