package ports

import (
	"context"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

// Authenticator talks to the authentication endpoints of the storefront API.
type Authenticator interface {
	// Login exchanges credentials for a bearer token and the user record.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

// RegisterInput carries the fields of a registration request. First and last
// name are joined into the username the backend expects.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CredentialStore is the durable projection of the session: the bearer token
// and the user record, written together on login and removed together on
// logout.
type CredentialStore interface {
	// Load returns the stored token and user. A missing store yields empty
	// values and no error.
	Load() (string, *domain.User, error)
	Save(token string, user *domain.User) error
	Clear() error
}

// SessionReader is the view of session state the route guard and the header
// views consume.
type SessionReader interface {
	Status() domain.SessionStatus
	IsAuthenticated() bool
	CurrentUser() *domain.User
}
