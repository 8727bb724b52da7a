// Package engine routes classified reminder commands to their flows and owns
// every user-facing message. Store failures are translated to reply text at
// the call site; only unexpected faults propagate to the transport layer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"remindbot/internal/command"
	"remindbot/internal/groups"
	"remindbot/internal/remind"
	"remindbot/internal/scheduler"
	"remindbot/internal/storage"
	"remindbot/internal/transport"
)

type Config struct {
	// CommandWord is the token that addresses the reminder subsystem,
	// e.g. "/remind".
	CommandWord string
}

type Engine struct {
	cfg    Config
	log    zerolog.Logger
	store  storage.Store
	sched  *scheduler.Scheduler
	groups *groups.Resolver
	dates  remind.DateParser
}

func New(cfg Config, store storage.Store, sched *scheduler.Scheduler, groups *groups.Resolver, dates remind.DateParser, log zerolog.Logger) *Engine {
	if cfg.CommandWord == "" {
		cfg.CommandWord = "/remind"
	}
	return &Engine{
		cfg:    cfg,
		log:    log.With().Str("component", "engine").Logger(),
		store:  store,
		sched:  sched,
		groups: groups,
		dates:  dates,
	}
}

// HandleComment classifies ev and runs the matching flow, queueing all
// user-facing output on reply. It returns handled=false when the comment is
// not a reminder command. A non-nil error is an unexpected fault (store
// unreachable and the like); a generic apology has already been queued.
func (e *Engine) HandleComment(ctx context.Context, ev transport.CommentEvent, reply *transport.Reply) (bool, error) {
	cmd, ok := command.Classify(ev.Body, e.cfg.CommandWord)
	if !ok {
		return false, nil
	}

	e.log.Debug().Str("action", cmd.Action.String()).Str("user", ev.Author).Str("event", ev.ID).Msg("reminder command")

	var err error
	switch cmd.Action {
	case command.ActionList:
		err = e.listReminders(ctx, ev, reply)
	case command.ActionDelete:
		err = e.deleteReminder(ctx, ev, reply, cmd)
	case command.ActionDefine:
		err = e.defineGroup(ctx, ev, reply, cmd)
	case command.ActionHelp:
		reply.Reply(helpText)
	default:
		err = e.scheduleReminder(ctx, ev, reply, cmd)
	}
	if err != nil {
		reply.Reply("We had trouble processing your request. Please try again later.")
		return true, err
	}
	return true, nil
}

func (e *Engine) scheduleReminder(ctx context.Context, ev transport.CommentEvent, reply *transport.Reply, cmd command.Command) error {
	r, err := remind.Parse(e.dates, cmd.Rest, ev.CreatedAt)
	if err != nil {
		if errors.Is(err, remind.ErrNoMatch) {
			reply.Reply(fmt.Sprintf("@%s I didn't get that date.", ev.Author))
			return nil
		}
		return err
	}
	r.Owner = ev.Author
	r.Origin = ev.Origin

	if _, err := e.sched.Schedule(ctx, *r); err != nil {
		return err
	}

	who := "you"
	if r.Who != "me" {
		who = "`" + r.Who + "`"
	}
	reply.Reply(fmt.Sprintf("I will remind %s of the following: %q %s", who, r.What, humanize.Time(r.When)))
	return nil
}

func (e *Engine) listReminders(ctx context.Context, ev transport.CommentEvent, reply *transport.Reply) error {
	rows, err := e.store.RemindersForUser(ctx, ev.Author)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		reply.Reply("You have no reminders set.")
		return nil
	}

	var b strings.Builder
	b.WriteString("## Your reminders")
	for _, row := range rows {
		fmt.Fprintf(&b, "\n- Reminder **%d**:\n    - **What:** %s\n    - **Who:** %s\n    - **When:** %s",
			row.ID, row.What, row.Who, humanize.Time(row.When))
	}
	reply.Reply(b.String())
	return nil
}

func (e *Engine) deleteReminder(ctx context.Context, ev transport.CommentEvent, reply *transport.Reply, cmd command.Command) error {
	if len(cmd.Args) == 0 {
		reply.Reply("Error trying to delete reminder. The ID is probably invalid.")
		return nil
	}
	id, err := strconv.ParseInt(cmd.Args[0], 10, 64)
	if err != nil {
		reply.Reply("Error trying to delete reminder. The ID is probably invalid.")
		return nil
	}

	row, err := e.store.ReminderByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		reply.Reply(fmt.Sprintf("Reminder with ID %d doesn't exist.", id))
		return nil
	}
	if err != nil {
		return err
	}

	if strings.TrimSpace(row.Owner) != ev.Author {
		reply.Reply("You can't delete a reminder you didn't create!")
		return nil
	}

	// The row goes first: once it is gone a concurrent resync has nothing
	// to re-arm. No live handle is fine, the reminder may predate this
	// process.
	if err := e.store.DeleteReminder(ctx, id); err != nil {
		return err
	}
	if !e.sched.Cancel(id) {
		e.log.Debug().Int64("id", id).Msg("no live handle to cancel")
	}

	reply.Reply(fmt.Sprintf("Reminder with ID %d deleted successfully.", id))
	return nil
}

func (e *Engine) defineGroup(ctx context.Context, ev transport.CommentEvent, reply *transport.Reply, cmd command.Command) error {
	rest := strings.Join(cmd.Args, " ")
	name, value, ok := strings.Cut(rest, " as ")
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		reply.Reply(fmt.Sprintf("Unable to handle request. Usage: `%s define #team1 as @user1 @user2`", e.cfg.CommandWord))
		return nil
	}

	err := e.groups.Define(ctx, name, value)
	switch {
	case errors.Is(err, groups.ErrBadName):
		reply.Reply("Group names should start with a #.")
		return nil
	case errors.Is(err, storage.ErrGroupExists):
		reply.Reply("Failure creating group. It probably already exists.")
		return nil
	case err != nil:
		return err
	}

	reply.Reply(fmt.Sprintf("Group `%s` created successfully as an alias for `%s`", name, value))
	return nil
}
