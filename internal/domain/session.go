package domain

import "fmt"

type SessionStatus string

const (
	SessionAnonymous      SessionStatus = "anonymous"
	SessionAuthenticating SessionStatus = "authenticating"
	SessionAuthenticated  SessionStatus = "authenticated"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionAnonymous, SessionAuthenticating, SessionAuthenticated:
		return true
	default:
		return false
	}
}

// SessionState is the tagged session variant. User is set if and only if
// Status is SessionAuthenticated; Child may only be set alongside User.
type SessionState struct {
	Status SessionStatus
	User   *User
	Child  *ChildProfile
}

func Anonymous() SessionState {
	return SessionState{Status: SessionAnonymous}
}

func Authenticating() SessionState {
	return SessionState{Status: SessionAuthenticating}
}

func Authenticated(user User, child *ChildProfile) SessionState {
	return SessionState{Status: SessionAuthenticated, User: &user, Child: child.Clone()}
}

func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated
}

func (s SessionState) HasChild() bool {
	return s.IsAuthenticated() && s.Child != nil
}

func (s SessionState) Clone() SessionState {
	return SessionState{Status: s.Status, User: s.User.Clone(), Child: s.Child.Clone()}
}

func (s SessionState) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("unknown session status %q", s.Status)
	}
	if s.IsAuthenticated() != (s.User != nil) {
		return fmt.Errorf("session status %q inconsistent with user presence", s.Status)
	}
	if s.Child != nil && s.User == nil {
		return fmt.Errorf("child profile without user")
	}

	return nil
}

func (s SessionState) String() string {
	if s.User == nil {
		return string(s.Status)
	}
	if s.Child == nil {
		return fmt.Sprintf("%s(%s)", s.Status, s.User.Email)
	}

	return fmt.Sprintf("%s(%s, child=%s)", s.Status, s.User.Email, s.Child.Name)
}
