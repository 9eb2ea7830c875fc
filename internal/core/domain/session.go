package domain

import "time"

// Session is the per-date ordering state. Closed and MessageSent only
// ever move from false to true.
type Session struct {
	Date        string    `json:"date"`
	Closed      bool      `json:"closed"`
	MessageRef  string    `json:"message_ref,omitempty"`
	MessageSent bool      `json:"message_sent"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultSession is the state of a date no action has touched yet.
func DefaultSession(date string) Session {
	return Session{Date: date}
}

// SessionStatus combines the persisted session with the time-of-day
// policy evaluated at a given instant.
type SessionStatus struct {
	Session        Session `json:"session"`
	Weekday        bool    `json:"weekday"`
	OrderingWindow bool    `json:"ordering_window"`
	PastDeadline   bool    `json:"past_deadline"`
	AcceptingVotes bool    `json:"accepting_votes"`
}
