// Package session derives the client sign-in state from persisted data.
// Nothing is kept in memory between loads: the state is always recomputed
// from the stored token and user record.
package session

import (
	"encoding/json"
	"strings"
)

// State is the client sign-in state.
type State int

const (
	NoSession State = iota
	PendingOnboarding
	Complete
)

func (s State) String() string {
	switch s {
	case PendingOnboarding:
		return "pending_onboarding"
	case Complete:
		return "complete"
	default:
		return "no_session"
	}
}

// User is the cached copy of the signed-in user.
type User struct {
	UID    string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

// Snapshot is the raw persisted session data.
type Snapshot struct {
	Token string
	User  string
}

// Session is the derived view of a Snapshot.
type Session struct {
	State State
	Token string
	User  User
	// Reset reports that the snapshot was unreadable and should be cleared.
	Reset bool
}

// Derive computes the session from a snapshot.
func Derive(snap Snapshot) Session {
	if snap.Token == "" || strings.TrimSpace(snap.User) == "" {
		return Session{State: NoSession}
	}
	var user User
	if strings.TrimSpace(snap.User) == "null" {
		return Session{State: NoSession, Reset: true}
	}
	if err := json.Unmarshal([]byte(snap.User), &user); err != nil {
		return Session{State: NoSession, Reset: true}
	}
	return signedIn(snap.Token, user)
}

func signedIn(token string, user User) Session {
	state := Complete
	if user.Mobile == "" {
		state = PendingOnboarding
	}
	return Session{State: state, Token: token, User: user}
}

// NeedsOnboarding reports whether the user still has to attach a mobile number.
func (s Session) NeedsOnboarding() bool { return s.State == PendingOnboarding }

// Verified is the transition taken after a successful sign-in.
func (s Session) Verified(token string, user User) Session {
	if token == "" {
		return Session{State: NoSession}
	}
	return signedIn(token, user)
}

// MobileAttached is the transition taken once the mobile number is stored.
// Without a session there is nothing to attach to.
func (s Session) MobileAttached(mobile string) Session {
	if s.State == NoSession || mobile == "" {
		return s
	}
	user := s.User
	user.Mobile = mobile
	return signedIn(s.Token, user)
}

// LoggedOut is the transition taken on explicit logout.
func (s Session) LoggedOut() Session {
	return Session{State: NoSession}
}
