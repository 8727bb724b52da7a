// Package transport defines the boundary to the comment channel: inbound
// comment events and the outbound reply channel. Real chat-platform clients
// live behind the Poster interface and are not part of this module.
package transport

import (
	"context"
	"time"

	"remindbot/internal/remind"
)

// CommentEvent is an inbound comment, normalized from whatever webhook
// payload the transport delivers.
type CommentEvent struct {
	// ID is a transport-assigned event ID, filled with a ULID when absent.
	ID        string
	Origin    remind.Origin
	Author    string
	Body      string
	CreatedAt time.Time
}

// Poster is the external reply channel. final marks the last/closing message
// of an interaction; the collaborator may use it to batch or close threads.
type Poster interface {
	Post(ctx context.Context, origin remind.Origin, body string, final bool) error
}
