// Package delivery turns a fired reminder into an outbound reply.
package delivery

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"remindbot/internal/groups"
	"remindbot/internal/remind"
	"remindbot/internal/storage"
	"remindbot/internal/transport"
)

// Dispatcher resolves the final recipient of a fired reminder, posts the
// reminder text, and removes the row.
type Dispatcher struct {
	store  storage.Store
	groups *groups.Resolver
	poster transport.Poster
	log    zerolog.Logger
}

func New(store storage.Store, groups *groups.Resolver, poster transport.Poster, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		groups: groups,
		poster: poster,
		log:    log.With().Str("component", "delivery").Logger(),
	}
}

// Deliver runs at fire time, exactly once per reminder. The reply is
// fire-and-forget: a failed post is logged and the row is deleted anyway,
// so a recovery sweep after restart cannot re-deliver it.
func (d *Dispatcher) Deliver(ctx context.Context, id int64, r remind.Reminder) {
	who := r.Who
	switch {
	case who == "me":
		who = "@" + r.Owner
	case strings.HasPrefix(who, "#"):
		who = d.groups.Resolve(ctx, who)
	default:
		who = "@" + who
	}

	asker := "@" + r.Owner
	if r.Who == "me" {
		asker = "You"
	}

	reply := transport.NewReply(d.poster, r.Origin)
	reply.Reply(fmt.Sprintf("Hey %s! %s asked me to remind you of the following: %q", who, asker, r.What))
	if err := reply.Send(ctx, true); err != nil {
		d.log.Warn().Err(err).Int64("id", id).Msg("reminder reply failed")
	}

	if err := d.store.DeleteReminder(ctx, id); err != nil {
		d.log.Error().Err(err).Int64("id", id).Msg("failed to delete fired reminder")
		return
	}
	d.log.Info().Int64("id", id).Str("who", r.Who).Msg("reminder delivered")
}
