// Package session carries the identity of the signed-in local user.
//
// A Session is an explicit value handed to every ledger and reporting call;
// there is no process-wide "current user".
package session

import "errors"

// ErrNotLoggedIn is returned when an operation needs a signed-in user.
var ErrNotLoggedIn = errors.New("not logged in")

// Session identifies an authenticated user.
type Session struct {
	UserID   int64
	Username string
}

// Valid reports whether the session refers to a signed-in user.
func (s Session) Valid() bool {
	return s.UserID > 0
}

// Holder keeps at most one session for an interactive front end.
// Setting a new session replaces the previous one.
type Holder struct {
	current Session
}

// Set replaces the held session.
func (h *Holder) Set(s Session) {
	h.current = s
}

// Current returns the held session and whether one is set.
func (h *Holder) Current() (Session, bool) {
	return h.current, h.current.Valid()
}

// Clear drops the held session.
func (h *Holder) Clear() {
	h.current = Session{}
}
