package transport

import (
	"context"
	"strings"
	"sync"

	"remindbot/internal/remind"
)

// Reply batches reply fragments for one interaction and posts them as a
// single outbound message. Fragments queued before Send may be joined by the
// collaborator into one comment.
type Reply struct {
	poster Poster
	origin remind.Origin

	mu    sync.Mutex
	parts []string
}

func NewReply(poster Poster, origin remind.Origin) *Reply {
	return &Reply{poster: poster, origin: origin}
}

// Reply queues a fragment. Empty fragments are dropped.
func (r *Reply) Reply(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	r.mu.Lock()
	r.parts = append(r.parts, text)
	r.mu.Unlock()
}

// Send posts all queued fragments as one message and clears the queue.
// Sending with nothing queued is a no-op, so callers can flush
// unconditionally.
func (r *Reply) Send(ctx context.Context, final bool) error {
	r.mu.Lock()
	parts := r.parts
	r.parts = nil
	r.mu.Unlock()
	if len(parts) == 0 {
		return nil
	}
	return r.poster.Post(ctx, r.origin, strings.Join(parts, "\n\n"), final)
}
