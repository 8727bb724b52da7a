package command

import (
	"reflect"
	"testing"
)

func TestClassifyVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		body     string
		action   Action
		rest     string
		args     []string
	}{
		{
			name:   "schedule",
			body:   "@remind-bot /remind me to ship it tomorrow",
			action: ActionSchedule,
			rest:   "remind me to ship it tomorrow",
		},
		{
			name:   "schedule for group",
			body:   "@remind-bot /remind #engineering to plan the sprint on Tuesday",
			action: ActionSchedule,
			rest:   "remind #engineering to plan the sprint on Tuesday",
		},
		{
			name:   "schedule keeps inner spacing",
			body:   "@remind-bot /remind me to review  the  RFC tomorrow",
			action: ActionSchedule,
			rest:   "remind me to review  the  RFC tomorrow",
		},
		{
			name:   "schedule trims around the command word only",
			body:   "  @remind-bot   /remind   me to nap tomorrow",
			action: ActionSchedule,
			rest:   "remind me to nap tomorrow",
		},
		{name: "list", body: "@remind-bot /remind list", action: ActionList},
		{name: "delete", body: "@remind-bot /remind delete 42", action: ActionDelete, args: []string{"42"}},
		{
			name:   "define",
			body:   "@remind-bot /remind define #team as @a @b",
			action: ActionDefine,
			args:   []string{"#team", "as", "@a", "@b"},
		},
		{name: "help", body: "@remind-bot /remind help", action: ActionHelp},
		{name: "subcommand case folded", body: "@remind-bot /remind LIST", action: ActionList},
		{name: "command word case folded", body: "@remind-bot /REMIND list", action: ActionList},
		{name: "extra whitespace", body: "  @remind-bot   /remind   list  ", action: ActionList},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd, ok := Classify(tt.body, "/remind")
			if !ok {
				t.Fatalf("Classify(%q) not recognized", tt.body)
			}
			if cmd.Action != tt.action {
				t.Fatalf("Action = %s, want %s", cmd.Action, tt.action)
			}
			if cmd.Rest != tt.rest {
				t.Fatalf("Rest = %q, want %q", cmd.Rest, tt.rest)
			}
			if len(tt.args)+len(cmd.Args) > 0 && !reflect.DeepEqual(cmd.Args, tt.args) {
				t.Fatalf("Args = %v, want %v", cmd.Args, tt.args)
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	t.Parallel()
	for _, body := range []string{
		"",
		"hello",
		"hello world",
		"@remind-bot /remind",
		"@remind-bot please add @someone for code",
		"just a /remind mention in the wrong place actually no",
	} {
		if _, ok := Classify(body, "/remind"); ok {
			t.Fatalf("Classify(%q) unexpectedly recognized", body)
		}
	}
}
