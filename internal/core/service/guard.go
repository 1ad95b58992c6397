package service

import (
	"strings"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

// Guard gates navigation to protected routes on session state. Allow reads
// the session store on every call, so an in-session logout immediately
// revokes access to routes that were reachable a moment earlier.
type Guard struct {
	session    ports.SessionReader
	loginRoute string
	protected  map[string]struct{}
}

// Decision is the outcome of a navigation check. When Allowed is false,
// RedirectTo names the login entry point.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// NewGuard builds a guard that redirects to loginRoute for the given
// protected routes; every other route always passes.
func NewGuard(session ports.SessionReader, loginRoute string, protectedRoutes ...string) *Guard {
	p := make(map[string]struct{}, len(protectedRoutes))
	for _, r := range protectedRoutes {
		p[normalizeRoute(r)] = struct{}{}
	}
	return &Guard{session: session, loginRoute: loginRoute, protected: p}
}

// Allow decides whether the route may render for the current session state.
// Only the authenticated state grants access to protected routes; anonymous,
// authenticating, and authentication_failed are all denied.
func (g *Guard) Allow(route string) Decision {
	if _, ok := g.protected[normalizeRoute(route)]; !ok {
		return Decision{Allowed: true}
	}
	if g.session.Status() == domain.StatusAuthenticated {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RedirectTo: g.loginRoute}
}

func normalizeRoute(route string) string {
	route = strings.TrimSuffix(strings.TrimSpace(route), "/")
	if route == "" {
		return "/"
	}
	return route
}
