package transport

import (
	"context"
	"sync"
	"testing"

	"remindbot/internal/remind"
)

type capturePoster struct {
	mu     sync.Mutex
	bodies []string
	finals []bool
}

func (p *capturePoster) Post(_ context.Context, _ remind.Origin, body string, final bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, body)
	p.finals = append(p.finals, final)
	return nil
}

func TestReplyBatchesFragments(t *testing.T) {
	t.Parallel()
	p := &capturePoster{}
	r := NewReply(p, remind.Origin{Issue: 1})

	r.Reply("first")
	r.Reply("  ") // dropped
	r.Reply("second")
	if err := r.Send(context.Background(), true); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(p.bodies) != 1 {
		t.Fatalf("posts = %d, want one batched message", len(p.bodies))
	}
	if p.bodies[0] != "first\n\nsecond" {
		t.Fatalf("body = %q", p.bodies[0])
	}
	if !p.finals[0] {
		t.Fatal("final flag not propagated")
	}
}

func TestReplySendEmptyIsNoOp(t *testing.T) {
	t.Parallel()
	p := &capturePoster{}
	r := NewReply(p, remind.Origin{})

	if err := r.Send(context.Background(), false); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(p.bodies) != 0 {
		t.Fatalf("unexpected post: %v", p.bodies)
	}

	// the queue drains on Send; a second Send posts nothing
	r.Reply("once")
	_ = r.Send(context.Background(), false)
	_ = r.Send(context.Background(), false)
	if len(p.bodies) != 1 {
		t.Fatalf("posts = %d, want 1", len(p.bodies))
	}
}
