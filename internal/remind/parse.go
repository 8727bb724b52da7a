package remind

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrNoMatch is returned when the input is not a schedulable reminder:
// the recipient pattern does not match, or no date expression is found.
var ErrNoMatch = errors.New("remind: no match")

// DateMatch is a single date expression recognized inside free text.
type DateMatch struct {
	// Text is the exact substring that matched.
	Text string
	// Index is the byte offset of Text in the input.
	Index int
	// Time is the resolved timestamp, relative to the reference time.
	Time time.Time
}

// DateParser extracts the first date expression from free text, resolved
// against a reference time. A nil match (with nil error) means no expression
// was found.
type DateParser interface {
	Parse(text string, ref time.Time) (*DateMatch, error)
}

var (
	matcher       = regexp.MustCompile(`^remind @?(\S+)(?: to )?([\s\S]*)$`)
	leadConnector = regexp.MustCompile(`^(to|that) `)
	trailOn       = regexp.MustCompile(` on$`)
)

// Parse extracts a recipient, payload, and fire time from the text following
// the "remind" keyword. ref is the timestamp of the triggering message; the
// first recognized date expression wins and later mentions are ignored.
func Parse(dates DateParser, input string, ref time.Time) (*Reminder, error) {
	m := matcher.FindStringSubmatch(input)
	if m == nil {
		return nil, ErrNoMatch
	}
	who, what := m[1], m[2]

	dm, err := dates.Parse(what, ref)
	if err != nil {
		return nil, err
	}
	if dm == nil || dm.Text == "" || dm.Time.IsZero() {
		return nil, ErrNoMatch
	}

	// Cut the matched expression at its reported offset so an earlier
	// occurrence of the same text in the payload is left intact.
	if end := dm.Index + len(dm.Text); dm.Index >= 0 && end <= len(what) && what[dm.Index:end] == dm.Text {
		what = what[:dm.Index] + what[end:]
	} else {
		what = strings.Replace(what, dm.Text, "", 1)
	}
	what = strings.TrimSpace(what)
	what = leadConnector.ReplaceAllString(what, "")
	what = trailOn.ReplaceAllString(what, "")

	return &Reminder{Who: who, What: what, When: dm.Time}, nil
}
