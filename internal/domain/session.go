package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identity is the opaque key of one requester across messages.
type Identity string

// State is the verification state of a Session.
type State int

const (
	StateAwaitingEmail State = iota
	StateAwaitingCode
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateAwaitingEmail:
		return "awaiting_email"
	case StateAwaitingCode:
		return "awaiting_code"
	case StateVerified:
		return "verified"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the per-identity verification state.
//
// Fields are only meaningful for some states:
//   - AwaitingEmail: Email, Code and ExpiresAt are empty.
//   - AwaitingCode:  Email, Code and ExpiresAt are set.
//   - Verified:      Email is set, Code and ExpiresAt are empty.
//
// The transition methods below are the only code that changes State and they
// keep those combinations intact.
type Session struct {
	Identity  Identity
	State     State
	Email     string
	Code      string
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a fresh session in AwaitingEmail.
func NewSession(id Identity, now time.Time) Session {
	return Session{Identity: id, State: StateAwaitingEmail, UpdatedAt: now}
}

// Verified reports whether the session reached its terminal state.
func (s *Session) Verified() bool { return s.State == StateVerified }

// AcceptEmail records an accepted email and its freshly issued code.
// Any previously outstanding code is overwritten.
func (s *Session) AcceptEmail(email, code string, expiresAt, now time.Time) error {
	if s.State != StateAwaitingEmail {
		return fmt.Errorf("accept email in %s: %w", s.State, ErrInvalidTransition)
	}
	if email == "" || code == "" || expiresAt.IsZero() {
		return fmt.Errorf("accept email with empty field: %w", ErrInvalidTransition)
	}
	s.State = StateAwaitingCode
	s.Email = email
	s.Code = code
	s.ExpiresAt = expiresAt
	s.UpdatedAt = now
	return nil
}

// Rollback undoes AcceptEmail after a failed delivery so the requester can
// enter an email again.
func (s *Session) Rollback(now time.Time) error {
	if s.State != StateAwaitingCode {
		return fmt.Errorf("rollback in %s: %w", s.State, ErrInvalidTransition)
	}
	s.reset(now)
	return nil
}

// Expired reports whether the pending code is no longer accepted at now.
// The code is still valid at exactly ExpiresAt.
func (s *Session) Expired(now time.Time) bool {
	return s.State == StateAwaitingCode && now.After(s.ExpiresAt)
}

// Expire drops the pending code and the email, back to AwaitingEmail.
func (s *Session) Expire(now time.Time) error {
	if s.State != StateAwaitingCode {
		return fmt.Errorf("expire in %s: %w", s.State, ErrInvalidTransition)
	}
	s.reset(now)
	return nil
}

// Matches reports whether text, trimmed, equals the pending code.
func (s *Session) Matches(text string) bool {
	return s.State == StateAwaitingCode && s.Code != "" && strings.TrimSpace(text) == s.Code
}

// MarkVerified moves the session to Verified. It is never undone.
func (s *Session) MarkVerified(now time.Time) error {
	if s.State != StateAwaitingCode {
		return fmt.Errorf("verify in %s: %w", s.State, ErrInvalidTransition)
	}
	s.State = StateVerified
	s.Code = ""
	s.ExpiresAt = time.Time{}
	s.UpdatedAt = now
	return nil
}

// Consistent reports whether the field combination matches State.
func (s *Session) Consistent() bool {
	if (s.Code != "") != !s.ExpiresAt.IsZero() {
		return false
	}
	switch s.State {
	case StateAwaitingEmail:
		return s.Email == "" && s.Code == ""
	case StateAwaitingCode:
		return s.Email != "" && s.Code != ""
	case StateVerified:
		return s.Email != "" && s.Code == ""
	default:
		return false
	}
}

func (s *Session) reset(now time.Time) {
	s.State = StateAwaitingEmail
	s.Email = ""
	s.Code = ""
	s.ExpiresAt = time.Time{}
	s.UpdatedAt = now
}
