package service

import (
	"testing"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

type stubSession struct {
	status domain.SessionStatus
	user   *domain.User
}

func (s *stubSession) Status() domain.SessionStatus { return s.status }
func (s *stubSession) IsAuthenticated() bool        { return s.status == domain.StatusAuthenticated }
func (s *stubSession) CurrentUser() *domain.User    { return s.user }

func TestGuard_DeniesUnauthenticatedStates(t *testing.T) {
	session := &stubSession{}
	g := NewGuard(session, "/login", "/checkout")

	for _, status := range []domain.SessionStatus{
		domain.StatusAnonymous,
		domain.StatusAuthenticating,
		domain.StatusAuthFailed,
	} {
		session.status = status
		d := g.Allow("/checkout")
		if d.Allowed {
			t.Errorf("status %s must be denied", status)
		}
		if d.RedirectTo != "/login" {
			t.Errorf("status %s: expected redirect to /login, got %q", status, d.RedirectTo)
		}
	}
}

func TestGuard_AllowsAuthenticated(t *testing.T) {
	session := &stubSession{status: domain.StatusAuthenticated}
	g := NewGuard(session, "/login", "/checkout")

	if d := g.Allow("/checkout"); !d.Allowed {
		t.Fatal("authenticated session must pass")
	}
}

func TestGuard_PublicRoutesAlwaysPass(t *testing.T) {
	session := &stubSession{status: domain.StatusAnonymous}
	g := NewGuard(session, "/login", "/checkout")

	for _, route := range []string{"/", "/cart", "/login", "/details"} {
		if d := g.Allow(route); !d.Allowed {
			t.Errorf("public route %s must pass", route)
		}
	}
}

func TestGuard_ReevaluatesOnEveryNavigation(t *testing.T) {
	session := &stubSession{status: domain.StatusAuthenticated}
	g := NewGuard(session, "/login", "/checkout")

	if d := g.Allow("/checkout"); !d.Allowed {
		t.Fatal("first navigation must pass")
	}

	// In-session logout must immediately revoke access.
	session.status = domain.StatusAnonymous
	if d := g.Allow("/checkout"); d.Allowed {
		t.Fatal("navigation after logout must be denied")
	}
}

func TestGuard_RouteNormalization(t *testing.T) {
	session := &stubSession{status: domain.StatusAnonymous}
	g := NewGuard(session, "/login", "/checkout/")

	if d := g.Allow("/checkout"); d.Allowed {
		t.Fatal("trailing-slash variants must refer to the same route")
	}
}
