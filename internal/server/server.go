// Package server exposes the HTTP surface: a webhook receiving comment
// events and a health endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"remindbot/internal/engine"
	"remindbot/internal/remind"
	"remindbot/internal/transport"
)

type Config struct {
	Listen string
	// BotName is the bot's own login; comments it authored are ignored so
	// the bot never reacts to its own replies.
	BotName string
}

type Server struct {
	cfg    Config
	log    zerolog.Logger
	engine *engine.Engine
	poster transport.Poster

	http *http.Server
}

func New(cfg Config, eng *engine.Engine, poster transport.Poster, log zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log.With().Str("component", "server").Logger(),
		engine: eng,
		poster: poster,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/events", s.handleEvent)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s.http = &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", s.cfg.Listen).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

type eventRequest struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Issue     int    `json:"issue"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type eventResponse struct {
	ID      string `json:"id"`
	Handled bool   `json:"handled"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" || strings.TrimSpace(req.Author) == "" {
		http.Error(w, "author and body are required", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = ulid.Make().String()
	}

	// The bot must never process its own replies.
	if strings.EqualFold(req.Author, s.cfg.BotName) {
		writeJSON(w, http.StatusAccepted, eventResponse{ID: req.ID, Handled: false})
		return
	}

	createdAt := time.Now()
	if req.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			http.Error(w, "created_at must be RFC 3339", http.StatusBadRequest)
			return
		}
		createdAt = t
	}

	ev := transport.CommentEvent{
		ID:        req.ID,
		Origin:    remind.Origin{Owner: req.Owner, Repo: req.Repo, Issue: req.Issue},
		Author:    req.Author,
		Body:      req.Body,
		CreatedAt: createdAt,
	}

	reply := transport.NewReply(s.poster, ev.Origin)
	handled, err := s.engine.HandleComment(r.Context(), ev, reply)
	if sendErr := reply.Send(r.Context(), false); sendErr != nil {
		s.log.Warn().Err(sendErr).Str("event", ev.ID).Msg("reply send failed")
	}
	if err != nil {
		s.log.Error().Err(err).Str("event", ev.ID).Msg("comment processing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{ID: req.ID, Handled: handled})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
