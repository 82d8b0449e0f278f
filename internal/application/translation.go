package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"translationbot/internal/domain"
	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/input"
	"translationbot/internal/ports/output"
)

var (
	_ input.Middleware = (*TranslationMiddleware)(nil)
	_ output.Bridge    = ChannelDataBridge{}
)

// translatableFields are the attachment content keys whose string values are translated.
var translatableFields = map[string]bool{
	"text":  true,
	"title": true,
	"value": true,
}

// TranslationOptions tunes how the user's language is resolved.
type TranslationOptions struct {
	// DetectLanguageOnce stops detection once a conversation has a stored language.
	DetectLanguageOnce bool
	// GetLanguageFromURI lets the channel's language hint seed a new conversation.
	GetLanguageFromURI bool
	// Bridge is called with every translated outbound message. Optional.
	Bridge output.Bridge
}

// TranslationMiddleware translates inbound messages into the bot language and
// outbound messages back into the user's language.
type TranslationMiddleware struct {
	translator output.Translator
	store      *LanguageStore
	opts       TranslationOptions
}

// NewTranslationMiddleware creates a TranslationMiddleware.
func NewTranslationMiddleware(translator output.Translator, store *LanguageStore, opts TranslationOptions) (*TranslationMiddleware, error) {
	if translator == nil {
		return nil, errors.New("translation middleware: translator is required")
	}
	if store == nil {
		return nil, errors.New("translation middleware: language store is required")
	}
	if opts.Bridge == nil {
		opts.Bridge = nopBridge{}
	}
	return &TranslationMiddleware{
		translator: translator,
		store:      store,
		opts:       opts,
	}, nil
}

// OnTurn resolves and stores the user's language, translates the inbound text,
// registers the outbound interceptors and continues the pipeline.
func (m *TranslationMiddleware) OnTurn(ctx context.Context, tc input.TurnContext, next input.NextFunc) error {
	if tc == nil {
		return domain.ErrNilTurnContext
	}
	activity := tc.Activity()
	key := ConversationKey(activity)

	if activity.IsMessage() {
		language, err := m.resolveLanguage(ctx, key, activity.Text, tc.UserLanguage().Get(domain.LanguageKey))
		if err != nil {
			return err
		}

		m.store.Set(key, language)
		if err := m.store.Commit(ctx); err != nil {
			return err
		}

		text, err := m.translator.ToBotLanguage(ctx, activity.Text)
		if err != nil {
			return fmt.Errorf("translate inbound message: %w", err)
		}
		activity.Text = text
	}

	tc.OnSend(&sendInterceptor{m: m, key: key})
	tc.OnUpdate(&updateInterceptor{m: m, key: key})

	return next(ctx)
}

// resolveLanguage picks the conversation's language. The branch order matters:
// detection wins unless detect-once is on and either a language is stored or the
// URI hint is enabled.
func (m *TranslationMiddleware) resolveLanguage(ctx context.Context, key, text, uriLanguage string) (string, error) {
	stored, err := m.store.Get(ctx, key, "")
	if err != nil {
		return "", err
	}

	once, fromURI := m.opts.DetectLanguageOnce, m.opts.GetLanguageFromURI
	switch {
	case (once && stored == "" && !fromURI) || !once:
		language, err := m.translator.Detect(ctx, text)
		if err != nil {
			return "", fmt.Errorf("detect language: %w", err)
		}
		return language, nil
	case fromURI && stored == "" && uriLanguage != "":
		return uriLanguage, nil
	default:
		return stored, nil
	}
}

// userLanguage returns the stored language for outbound translation.
func (m *TranslationMiddleware) userLanguage(ctx context.Context, key string) (string, error) {
	return m.store.Get(ctx, key, domain.DefaultLanguage)
}

// translateActivity rewrites every user-visible string of a message activity in place.
func (m *TranslationMiddleware) translateActivity(ctx context.Context, activity *entities.Activity, language string) error {
	if !activity.IsMessage() {
		return nil
	}

	if activity.Text != "" {
		text, err := m.translator.Translate(ctx, activity.Text, language)
		if err != nil {
			return fmt.Errorf("translate text: %w", err)
		}
		activity.Text = text
	}

	if activity.SuggestedActions != nil {
		for i := range activity.SuggestedActions.Actions {
			action := &activity.SuggestedActions.Actions[i]
			title, err := m.translator.Translate(ctx, action.Title, language)
			if err != nil {
				return fmt.Errorf("translate suggested action title: %w", err)
			}
			action.Title = title

			if action.Value == nil {
				continue
			}
			value, err := m.translator.Translate(ctx, fmt.Sprint(action.Value), language)
			if err != nil {
				return fmt.Errorf("translate suggested action value: %w", err)
			}
			action.Value = value
		}
	}

	for i := range activity.Attachments {
		content, err := m.translateContent(ctx, activity.Attachments[i].Content, language)
		if err != nil {
			return fmt.Errorf("translate attachment %d: %w", i, err)
		}
		activity.Attachments[i].Content = content
	}

	m.opts.Bridge.BridgeMessage(activity)
	return nil
}

// translateContent streams raw attachment JSON, translates every string held
// directly under a text/title/value key at any depth and writes the rest of the
// document back in its original order.
func (m *TranslationMiddleware) translateContent(ctx context.Context, raw json.RawMessage, language string) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	w := &contentWalker{
		ctx:        ctx,
		dec:        dec,
		translator: m.translator,
		language:   language,
		seen:       make(map[string]string),
	}
	if err := w.value(false); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", domain.ErrInvalidAttachment)
	}
	return json.RawMessage(w.out.Bytes()), nil
}

type contentWalker struct {
	ctx        context.Context
	dec        *json.Decoder
	out        bytes.Buffer
	translator output.Translator
	language   string
	// seen holds translations already made for this attachment.
	seen map[string]string
}

func (w *contentWalker) token() (json.Token, error) {
	tok, err := w.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAttachment, err)
	}
	return tok, nil
}

// value copies the next JSON value to out. translate is set when the value sits
// under one of the translatable keys.
func (w *contentWalker) value(translate bool) error {
	tok, err := w.token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return w.object()
		case '[':
			return w.array()
		}
		return fmt.Errorf("%w: unexpected %v", domain.ErrInvalidAttachment, v)
	case string:
		if translate {
			if v, err = w.translate(v); err != nil {
				return err
			}
		}
		return w.writeString(v)
	case json.Number:
		w.out.WriteString(v.String())
	case bool:
		w.out.WriteString(strconv.FormatBool(v))
	case nil:
		w.out.WriteString("null")
	}
	return nil
}

func (w *contentWalker) object() error {
	w.out.WriteByte('{')
	for first := true; w.dec.More(); first = false {
		if !first {
			w.out.WriteByte(',')
		}
		tok, err := w.token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key %v", domain.ErrInvalidAttachment, tok)
		}
		if err := w.writeString(key); err != nil {
			return err
		}
		w.out.WriteByte(':')
		if err := w.value(translatableFields[key]); err != nil {
			return err
		}
	}
	if _, err := w.token(); err != nil {
		return err
	}
	w.out.WriteByte('}')
	return nil
}

func (w *contentWalker) array() error {
	w.out.WriteByte('[')
	for first := true; w.dec.More(); first = false {
		if !first {
			w.out.WriteByte(',')
		}
		if err := w.value(false); err != nil {
			return err
		}
	}
	if _, err := w.token(); err != nil {
		return err
	}
	w.out.WriteByte(']')
	return nil
}

func (w *contentWalker) writeString(s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode attachment: %w", err)
	}
	w.out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

func (w *contentWalker) translate(s string) (string, error) {
	if s == "" {
		return s, nil
	}
	if t, ok := w.seen[s]; ok {
		return t, nil
	}
	t, err := w.translator.Translate(w.ctx, s, w.language)
	if err != nil {
		return "", err
	}
	w.seen[s] = t
	return t, nil
}

// sendInterceptor translates a send batch concurrently; the batch is forwarded only
// when every message translated.
type sendInterceptor struct {
	m   *TranslationMiddleware
	key string
}

func (i *sendInterceptor) BeforeSend(ctx context.Context, activities []*entities.Activity, next input.SendNext) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range activities {
		if !a.IsMessage() {
			continue
		}
		a := a
		g.Go(func() error {
			language, err := i.m.userLanguage(gctx, i.key)
			if err != nil {
				return err
			}
			return i.m.translateActivity(gctx, a, language)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return next(ctx)
}

type updateInterceptor struct {
	m   *TranslationMiddleware
	key string
}

func (i *updateInterceptor) BeforeUpdate(ctx context.Context, activity *entities.Activity, next input.UpdateNext) error {
	if activity.IsMessage() {
		language, err := i.m.userLanguage(ctx, i.key)
		if err != nil {
			return err
		}
		if err := i.m.translateActivity(ctx, activity, language); err != nil {
			return err
		}
	}
	return next(ctx)
}

// ChannelDataBridge tags each translated message in its channel data, so the
// channel host can tell bot messages apart when it relays them to an agent
// console or transcript.
type ChannelDataBridge struct {
	Key   string
	Value any
}

func (b ChannelDataBridge) BridgeMessage(activity *entities.Activity) {
	if activity.ChannelData == nil {
		activity.ChannelData = make(map[string]any, 1)
	}
	activity.ChannelData[b.Key] = b.Value
}

type nopBridge struct{}

func (nopBridge) BridgeMessage(*entities.Activity) {}
