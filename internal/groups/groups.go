// Package groups resolves "#group" alias tokens to user mention lists.
package groups

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"remindbot/internal/storage"
)

// ErrBadName is returned when a group name does not start with "#".
var ErrBadName = errors.New("groups: name must start with #")

type Resolver struct {
	store storage.Store
	log   zerolog.Logger
}

func New(store storage.Store, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, log: log.With().Str("component", "groups").Logger()}
}

// Define records name as an alias for value (a space-separated mention list).
// storage.ErrGroupExists is passed through so callers can give a specific
// user-facing message.
func (r *Resolver) Define(ctx context.Context, name, value string) error {
	if !strings.HasPrefix(name, "#") {
		return ErrBadName
	}
	return r.store.CreateGroup(ctx, name, value)
}

// Resolve expands a "#group" token into its mention list. Tokens without the
// "#" prefix and unknown groups are returned unchanged: resolution fails
// open so a deleted-or-never-defined group still produces a readable reply.
func (r *Resolver) Resolve(ctx context.Context, token string) string {
	if !strings.HasPrefix(token, "#") {
		return token
	}
	value, err := r.store.GroupByName(ctx, token)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn().Err(err).Str("group", token).Msg("group lookup failed")
		}
		return token
	}
	return value
}
