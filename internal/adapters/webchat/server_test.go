package webchat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"translationbot/internal/application"
	"translationbot/internal/domain/entities"
	"translationbot/internal/infrastructure/i18n"
	"translationbot/internal/infrastructure/memory"
	"translationbot/internal/infrastructure/translator"
)

// translatorAPI fakes the translation service with a fixed dictionary.
type translatorAPI struct {
	status      int
	detectCalls atomic.Int32
	dictionary  map[string]string // "to|text" -> translation
}

func (a *translatorAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.status != 0 {
		w.WriteHeader(a.status)
		return
	}
	var body []struct{ Text string }
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Path {
	case "/detect":
		a.detectCalls.Add(1)
		_, _ = io.WriteString(w, `[{"language":"fr","score":1.0}]`)
	case "/translate":
		to := r.URL.Query().Get("to")
		out, ok := a.dictionary[to+"|"+body[0].Text]
		if !ok {
			out = body[0].Text
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"translations": []map[string]string{{"text": out, "to": to}}},
		})
	}
}

func newTestServer(t *testing.T, api *translatorAPI, opts application.TranslationOptions) *httptest.Server {
	t.Helper()
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	client, err := translator.New(translator.Config{
		Language: "en",
		Key:      "k",
		Region:   "r",
		Endpoint: apiSrv.URL,
	}, translator.WithHTTPClient(apiSrv.Client()))
	if err != nil {
		t.Fatalf("translator.New() unexpected error: %v", err)
	}

	store := application.NewLanguageStore(memory.NewLanguageRepository())
	mw, err := application.NewTranslationMiddleware(client, store, opts)
	if err != nil {
		t.Fatalf("NewTranslationMiddleware() unexpected error: %v", err)
	}

	s := NewServer(":0", application.NewPipeline(mw), application.NewEchoBot(i18n.NewTranslator("en"), "en"))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body string) (int, Response) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestMessages_LanguageFromURI(t *testing.T) {
	api := &translatorAPI{dictionary: map[string]string{
		"en|Bonjour":         "Hello",
		"fr|You said: Hello": "Vous avez dit : Bonjour",
	}}
	srv := newTestServer(t, api, application.TranslationOptions{DetectLanguageOnce: true, GetLanguageFromURI: true})

	status, resp := post(t, srv.URL+"/api/messages?language=fr", `{"conversationId":"c1","from":"u1","text":"Bonjour"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", status, resp.Error)
	}
	if len(resp.Activities) != 1 || resp.Activities[0].Text != "Vous avez dit : Bonjour" {
		t.Fatalf("activities = %+v, want the French echo", resp.Activities)
	}
	if resp.Activities[0].ChannelID != ChannelID || resp.Activities[0].ConversationID != "c1" {
		t.Errorf("addressing = %s/%s, want %s/c1", resp.Activities[0].ChannelID, resp.Activities[0].ConversationID, ChannelID)
	}
	if n := api.detectCalls.Load(); n != 0 {
		t.Errorf("detect called %d times, want 0", n)
	}
}

func TestMessages_DetectsLanguage(t *testing.T) {
	api := &translatorAPI{dictionary: map[string]string{
		"en|Bonjour":         "Hello",
		"fr|You said: Hello": "Vous avez dit : Bonjour",
	}}
	srv := newTestServer(t, api, application.TranslationOptions{})

	status, resp := post(t, srv.URL+"/api/messages", `{"conversationId":"c2","text":"Bonjour"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", status, resp.Error)
	}
	if len(resp.Activities) != 1 || resp.Activities[0].Text != "Vous avez dit : Bonjour" {
		t.Fatalf("activities = %+v, want the French echo", resp.Activities)
	}
	if n := api.detectCalls.Load(); n != 1 {
		t.Errorf("detect called %d times, want 1", n)
	}
}

func TestMessages_TranslatorUnauthorized(t *testing.T) {
	api := &translatorAPI{status: http.StatusUnauthorized}
	srv := newTestServer(t, api, application.TranslationOptions{})

	status, resp := post(t, srv.URL+"/api/messages", `{"conversationId":"c3","text":"Bonjour"}`)
	if status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if resp.Error != "translator_http_401" {
		t.Errorf("error = %q, want translator_http_401", resp.Error)
	}
	if len(resp.Activities) != 0 {
		t.Errorf("activities = %+v, want none", resp.Activities)
	}
}

func TestMessages_BadRequests(t *testing.T) {
	srv := newTestServer(t, &translatorAPI{}, application.TranslationOptions{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"text":`},
		{name: "missing conversation", body: `{"text":"hi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := post(t, srv.URL+"/api/messages", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if resp.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestCollectingSender_Update(t *testing.T) {
	s := &collectingSender{}
	ctx := context.Background()

	a := newActivity("c1", "first")
	if err := s.Send(ctx, []*entities.Activity{a}); err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}
	if a.ID != "c1-1" {
		t.Errorf("ID = %q, want c1-1", a.ID)
	}

	edited := newActivity("c1", "edited")
	edited.ID = a.ID
	if err := s.Update(ctx, edited); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if s.activities[0].Text != "edited" {
		t.Errorf("text = %q, want edited", s.activities[0].Text)
	}

	unknown := newActivity("c1", "x")
	unknown.ID = "nope"
	if err := s.Update(ctx, unknown); err == nil {
		t.Error("Update() of an unknown activity should fail")
	}
}

func newActivity(conversationID, text string) *entities.Activity {
	return &entities.Activity{Type: entities.ActivityTypeMessage, ConversationID: conversationID, Text: text}
}

func TestMessages_BridgeTagsChannelData(t *testing.T) {
	api := &translatorAPI{dictionary: map[string]string{"en|Bonjour": "Hello"}}
	srv := newTestServer(t, api, application.TranslationOptions{
		Bridge: application.ChannelDataBridge{Key: "tags", Value: "translated"},
	})

	status, resp := post(t, srv.URL+"/api/messages", `{"conversationId":"c4","text":"Bonjour"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", status, resp.Error)
	}
	if len(resp.Activities) != 1 || resp.Activities[0].ChannelData["tags"] != "translated" {
		t.Errorf("activities = %+v, want channelData tags=translated", resp.Activities)
	}
}
