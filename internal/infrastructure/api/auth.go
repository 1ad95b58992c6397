package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

var _ ports.Authenticator = (*Client)(nil)

// loginSchema validates credentials before they leave the client. Shape
// violations are reported per field and never reach the network.
type loginSchema struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type loginRequest struct {
	Auth struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"auth"`
}

type wireUser struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Avatar    string      `json:"avatar"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// Login exchanges credentials for a bearer token and the user record.
// The token is not attached to the client here; the session store decides
// when a login becomes effective.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if err := c.check.Check(loginSchema{Email: email, Password: password}); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	var req loginRequest
	req.Auth.Email = email
	req.Auth.Password = password

	var resp loginResponse
	if err := c.post(ctx, "/login", req, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, fmt.Errorf("%w: empty token in login response", domain.ErrFetchFailed)
	}

	user := toUser(resp.User)
	return resp.Token, &user, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerSchema struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	FirstName string `validate:"required"`
}

// Register creates an account. The backend expects a single username field,
// so first and last name are joined here.
func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := c.check.Check(registerSchema{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	req := registerRequest{
		Username: strings.TrimSpace(input.FirstName + " " + input.LastName),
		Email:    input.Email,
		Password: input.Password,
	}

	var wire wireUser
	if err := c.post(ctx, "/register", req, &wire); err != nil {
		return nil, err
	}
	user := toUser(wire)
	return &user, nil
}

func toUser(w wireUser) domain.User {
	return domain.User{
		ID:        w.ID.String(),
		Username:  w.Username,
		Email:     w.Email,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Avatar:    w.Avatar,
	}
}
