package remind

import "time"

// Origin identifies the comment thread a reminder came from. It is persisted
// with the reminder so delivery can address the same thread after a restart.
type Origin struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Issue int    `json:"issue"`
}

// Reminder is a request to deliver a message to a recipient at a future time.
type Reminder struct {
	// Owner is the login of the user who created the reminder. Only the
	// owner may delete it.
	Owner string `json:"owner"`
	// Who is the recipient token: the literal "me", a bare user handle,
	// or a "#group" alias.
	Who string `json:"who"`
	// What is the free-text payload, already stripped of the date
	// expression and connector words.
	What string `json:"what"`
	// When is the resolved fire time.
	When time.Time `json:"when"`

	Origin Origin `json:"origin"`
}

// Stored is a persisted reminder together with its store-assigned ID.
type Stored struct {
	ID int64
	Reminder
}
