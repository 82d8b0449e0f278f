package i18n

import "testing"

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("en")

	tests := []struct {
		name   string
		locale string
		key    string
		data   map[string]any
		want   string
	}{
		{name: "english echo", locale: "en", key: "reply.echo", data: map[string]any{"Text": "hi"}, want: "You said: hi"},
		{name: "french echo", locale: "fr", key: "reply.echo", data: map[string]any{"Text": "salut"}, want: "Vous avez dit : salut"},
		{name: "plain string message", locale: "fr", key: "command.help", want: "aide"},
		{name: "unknown locale falls back", locale: "de", key: "reply.help.action", want: "Help"},
		{name: "unknown key returns key", locale: "en", key: "reply.missing", want: "reply.missing"},
		{name: "empty key", locale: "en", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.T(tt.locale, tt.key, tt.data); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.locale, tt.key, got, tt.want)
			}
		})
	}
}

func TestNewTranslator_InvalidLocale(t *testing.T) {
	tr := NewTranslator("not a locale")
	if tr.defaultLanguage.String() != "en" {
		t.Errorf("defaultLanguage = %s, want en", tr.defaultLanguage)
	}
}
