package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"remindbot/internal/delivery"
	"remindbot/internal/engine"
	"remindbot/internal/groups"
	"remindbot/internal/remind"
	"remindbot/internal/scheduler"
	"remindbot/internal/storage"
)

type fakePoster struct {
	mu    sync.Mutex
	posts []string
}

func (p *fakePoster) Post(_ context.Context, _ remind.Origin, body string, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, body)
	return nil
}

func (p *fakePoster) all() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.posts...)
}

func newTestServer(t *testing.T) (*Server, *fakePoster, storage.Store) {
	t.Helper()
	log := zerolog.Nop()
	st := storage.NewMemory()
	poster := &fakePoster{}
	resolver := groups.New(st, log)
	disp := delivery.New(st, resolver, poster, log)
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	sched := scheduler.New(scheduler.Config{}, st, disp, mock, log)
	t.Cleanup(sched.Stop)
	eng := engine.New(engine.Config{}, st, sched, resolver, remind.NewWhenParser(), log)
	return New(Config{Listen: ":0", BotName: "remind-bot"}, eng, poster, log), poster, st
}

func postEvent(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleEventSchedulesReminder(t *testing.T) {
	t.Parallel()
	s, poster, st := newTestServer(t)

	rec := postEvent(t, s, `{
		"owner": "org", "repo": "repo", "issue": 7,
		"author": "alice",
		"body": "@remind-bot /remind me to ship the release tomorrow at 9am",
		"created_at": "2024-01-01T00:00:00Z"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"handled":true`) {
		t.Fatalf("response = %s", rec.Body.String())
	}

	posts := poster.all()
	if len(posts) != 1 || !strings.Contains(posts[0], "I will remind you") {
		t.Fatalf("posts = %v", posts)
	}

	rows, err := st.RemindersForUser(context.Background(), "alice")
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows = %v, err = %v", rows, err)
	}
}

func TestHandleEventIgnoresNonCommands(t *testing.T) {
	t.Parallel()
	s, poster, _ := newTestServer(t)

	rec := postEvent(t, s, `{"author": "alice", "body": "great idea, ship it"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"handled":false`) {
		t.Fatalf("response = %s", rec.Body.String())
	}
	if len(poster.all()) != 0 {
		t.Fatalf("unexpected reply: %v", poster.all())
	}
}

func TestHandleEventDropsBotComments(t *testing.T) {
	t.Parallel()
	s, poster, _ := newTestServer(t)

	rec := postEvent(t, s, `{"author": "remind-bot", "body": "@remind-bot /remind list"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(poster.all()) != 0 {
		t.Fatalf("bot must not reply to itself: %v", poster.all())
	}
}

func TestHandleEventValidation(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestServer(t)

	if rec := postEvent(t, s, `{not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid json: status = %d", rec.Code)
	}
	if rec := postEvent(t, s, `{"author": "", "body": "x"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing author: status = %d", rec.Code)
	}
	if rec := postEvent(t, s, `{"author": "a", "body": "@b /remind list", "created_at": "yesterday"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad created_at: status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
