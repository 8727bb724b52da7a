// Package command classifies raw comment bodies into reminder commands.
package command

import (
	"strings"
	"unicode"
)

// Action is a reminder subcommand.
type Action int

const (
	// ActionSchedule is the default action for any third token that is not
	// a known subcommand: the token is treated as a recipient.
	ActionSchedule Action = iota
	ActionList
	ActionDelete
	ActionDefine
	ActionHelp
)

func (a Action) String() string {
	switch a {
	case ActionSchedule:
		return "schedule"
	case ActionList:
		return "list"
	case ActionDelete:
		return "delete"
	case ActionDefine:
		return "define"
	case ActionHelp:
		return "help"
	}
	return "unknown"
}

// Command is a classified reminder command.
type Command struct {
	Action Action

	// Rest is the body rewritten as a parser input, e.g.
	// "remind me to ship it tomorrow". Only meaningful for ActionSchedule.
	Rest string

	// Args are the tokens after the subcommand, e.g. the ID for delete or
	// the "#group as @a @b" tail for define.
	Args []string
}

// Classify inspects a raw comment body. The message is a reminder command
// when its second whitespace-delimited token equals word (case-insensitive,
// e.g. "/remind"); the third token selects the subcommand. Short or
// unrelated messages return ok=false, never a panic.
func Classify(body, word string) (Command, bool) {
	fields := strings.Fields(body)
	if len(fields) < 3 {
		return Command{}, false
	}
	if !strings.EqualFold(fields[1], word) {
		return Command{}, false
	}

	cmd := Command{Args: fields[3:]}
	switch strings.ToLower(fields[2]) {
	case "list":
		cmd.Action = ActionList
	case "delete":
		cmd.Action = ActionDelete
	case "define":
		cmd.Action = ActionDefine
	case "help":
		cmd.Action = ActionHelp
	default:
		cmd.Action = ActionSchedule
		// Rebuild the text the parser expects, "remind <who> ...",
		// from the body itself so inner spacing survives.
		cmd.Rest = "remind " + tail(body, 2)
		cmd.Args = nil
	}
	return cmd, true
}

// tail returns body with its first n whitespace-delimited fields removed,
// keeping the remaining text's own spacing.
func tail(body string, n int) string {
	s := body
	for i := 0; i < n; i++ {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		k := strings.IndexFunc(s, unicode.IsSpace)
		if k < 0 {
			return ""
		}
		s = s[k:]
	}
	return strings.TrimSpace(s)
}
