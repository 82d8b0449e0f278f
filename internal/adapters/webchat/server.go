// Package webchat exposes the bot over a small JSON HTTP endpoint. Query string
// parameters of the request (such as ?language=fr) are handed to the bot as the
// user's language hints.
package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"translationbot/internal/application"
	"translationbot/internal/domain"
	"translationbot/internal/domain/entities"
	"translationbot/internal/ports/input"
)

// ChannelID identifies activities coming through this adapter.
const ChannelID = "webchat"

const maxBodyBytes = 1 << 20

// Response is the body returned for each posted activity.
type Response struct {
	Activities []*entities.Activity `json:"activities"`
	Error      string               `json:"error,omitempty"`
}

// Server runs turns for activities posted to /api/messages.
type Server struct {
	pipeline *application.Pipeline
	bot      input.BotHandler
	srv      *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, pipeline *application.Pipeline, bot input.BotHandler) *Server {
	s := &Server{pipeline: pipeline, bot: bot}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes of the adapter.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/messages", s.handleMessages)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("🌐 Web chat listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web chat server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for running turns.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	var activity entities.Activity
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&activity); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid activity: " + err.Error()})
		return
	}
	if strings.TrimSpace(activity.ConversationID) == "" {
		writeJSON(w, http.StatusBadRequest, Response{Error: "conversationId is required"})
		return
	}
	if activity.Type == "" {
		activity.Type = entities.ActivityTypeMessage
	}
	activity.ChannelID = ChannelID

	sender := &collectingSender{activities: []*entities.Activity{}}
	turn := application.NewTurn(&activity, hintsFromQuery(r), sender)
	if err := s.pipeline.Run(r.Context(), turn, s.bot); err != nil {
		log.Printf("❌ Web chat turn failed (conversation=%s): %v", activity.ConversationID, err)
		code := domain.Code(err)
		if code == "" {
			code = "turn_failed"
		}
		writeJSON(w, http.StatusBadGateway, Response{Activities: []*entities.Activity{}, Error: code})
		return
	}

	writeJSON(w, http.StatusOK, Response{Activities: sender.activities})
}

// hintsFromQuery turns the first value of each query parameter into a hint.
func hintsFromQuery(r *http.Request) entities.UserLanguage {
	query := r.URL.Query()
	hints := make(entities.UserLanguage, len(query))
	for key := range query {
		hints[key] = query.Get(key)
	}
	return hints
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️ Web chat response encoding failed: %v", err)
	}
}
