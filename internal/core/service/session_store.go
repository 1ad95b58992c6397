package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
	"github.com/ecommerceapp/storefront/internal/metrics"
)

// SessionStore owns authentication state: a four-state machine
// (anonymous → authenticating → authenticated / authentication_failed)
// mirrored to a durable credential store. The constructor rehydrates
// synchronously, so the initial state is decided before any view renders.
//
// Credentials are written before the authenticated transition and cleared
// as part of logout, so a restart never observes an authenticated session
// without matching durable credentials.
type SessionStore struct {
	mu     sync.Mutex
	status domain.SessionStatus
	user   *domain.User
	token  string
	errMsg string
	// loginSeq identifies the latest login attempt. Logout and every new
	// attempt bump it, so an in-flight attempt can detect it was superseded
	// and drop its outcome instead of resurrecting a stale session.
	loginSeq uint64

	auth  ports.Authenticator
	creds ports.CredentialStore
	log   zerolog.Logger
}

func NewSessionStore(auth ports.Authenticator, creds ports.CredentialStore, log zerolog.Logger) *SessionStore {
	s := &SessionStore{
		status: domain.StatusAnonymous,
		auth:   auth,
		creds:  creds,
		log:    log,
	}
	s.rehydrate()
	return s
}

// rehydrate derives the initial state from the credential store. A stored
// token that is already expired is discarded together with the user record.
func (s *SessionStore) rehydrate() {
	token, user, err := s.creds.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("session rehydration failed, starting anonymous")
		return
	}
	if token == "" {
		return
	}
	if tokenExpired(token, time.Now()) {
		s.log.Info().Msg("stored session token expired, clearing credentials")
		if err := s.creds.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear expired credentials")
		}
		return
	}
	s.status = domain.StatusAuthenticated
	s.token = token
	if user != nil {
		owned := *user
		s.user = &owned
	}
	s.log.Info().Msg("session rehydrated from durable storage")
}

// Login runs a full authentication attempt against the backend. A failure
// lands in authentication_failed with a message for display, leaves durable
// storage untouched, and is never fatal to the application.
//
// The mutex is not held across the network call: readers observe the
// authenticating state while the attempt is in flight. The outcome is applied
// only if no logout or newer attempt intervened.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.setStatus(domain.StatusAuthenticating)
	s.errMsg = ""
	s.loginSeq++
	seq := s.loginSeq
	s.mu.Unlock()

	token, user, err := s.auth.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	superseded := seq != s.loginSeq

	if err != nil {
		if !superseded {
			s.fail(fmt.Sprintf("login failed: %v", err))
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("login: %w", err)
	}
	if superseded {
		s.log.Info().Msg("dropping superseded login outcome")
		return nil
	}

	// Persist before the authenticated transition.
	if err := s.creds.Save(token, user); err != nil {
		s.fail("login failed: could not persist session")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("login: persist credentials: %w", err)
	}

	s.setStatus(domain.StatusAuthenticated)
	s.token = token
	owned := *user
	s.user = &owned
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return nil
}

// Logout returns the session to anonymous and removes the durable
// credentials as one logical operation.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Invalidate any login attempt still in flight.
	s.loginSeq++

	err := s.creds.Clear()

	s.setStatus(domain.StatusAnonymous)
	s.user = nil
	s.token = ""
	s.errMsg = ""

	if err != nil {
		s.log.Error().Err(err).Msg("failed to clear durable credentials on logout")
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}

// UpdateUser merges non-empty fields of patch into the current user record
// and mirrors the result to durable storage.
func (s *SessionStore) UpdateUser(patch domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}
	if patch.Username != "" {
		s.user.Username = patch.Username
	}
	if patch.Email != "" {
		s.user.Email = patch.Email
	}
	if patch.FirstName != "" {
		s.user.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		s.user.LastName = patch.LastName
	}
	if patch.Avatar != "" {
		s.user.Avatar = patch.Avatar
	}
	if err := s.creds.Save(s.token, s.user); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist updated user record")
	}
}

// ClearError discards a previous failure message without changing access.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

func (s *SessionStore) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsAuthenticated is true iff a token is present, which holds exactly in the
// authenticated state.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == domain.StatusAuthenticated && s.token != ""
}

// CurrentUser returns a copy of the user record, or nil when anonymous.
func (s *SessionStore) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token, empty when not authenticated.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Err returns the message of the last failed login attempt, if any.
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// fail records a failed attempt. Callers must hold s.mu.
func (s *SessionStore) fail(msg string) {
	s.setStatus(domain.StatusAuthFailed)
	s.user = nil
	s.token = ""
	s.errMsg = msg
}

// setStatus applies a state machine transition. Callers must hold s.mu.
// Invalid transitions are logged and dropped rather than propagated: every
// caller inside this package follows the machine, so a violation is a bug.
func (s *SessionStore) setStatus(next domain.SessionStatus) {
	if s.status == next {
		return
	}
	if !s.status.CanTransitionTo(next) {
		s.log.Error().
			Str("from", string(s.status)).
			Str("to", string(next)).
			Msg("invalid session transition dropped")
		return
	}
	s.status = next
}

// tokenExpired inspects the registered claims of a JWT without verifying the
// signature (the client does not hold the signing secret). Opaque tokens and
// tokens without an exp claim are trusted until the backend rejects them.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
