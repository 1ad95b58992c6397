package domain

import "errors"

// SessionStatus represents the authentication state of the client session.
type SessionStatus string

const (
	StatusAnonymous      SessionStatus = "anonymous"
	StatusAuthenticating SessionStatus = "authenticating"
	StatusAuthenticated  SessionStatus = "authenticated"
	StatusAuthFailed     SessionStatus = "authentication_failed"
)

// validTransitions defines the allowed session state machine transitions.
// Logout (→ anonymous) and a fresh login attempt (→ authenticating) are
// reachable from every state; authenticated is only reachable from
// authenticating.
var validTransitions = map[SessionStatus][]SessionStatus{
	StatusAnonymous:      {StatusAuthenticating},
	StatusAuthenticating: {StatusAuthenticated, StatusAuthFailed, StatusAnonymous},
	StatusAuthenticated:  {StatusAuthenticating, StatusAnonymous},
	StatusAuthFailed:     {StatusAuthenticating, StatusAnonymous},
}

var ErrInvalidTransition = errors.New("invalid session transition")
var ErrInvalidCredentials = errors.New("invalid credentials")

// CanTransitionTo reports whether moving from the current status to next is valid.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// User models the account behind an authenticated session.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}
