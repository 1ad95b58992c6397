// Package api implements the consumer side of the storefront REST backend:
// a versioned JSON client plus typed wrappers per resource. Wire data is
// normalized and validated here so the core never sees raw representations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCurrency = "USD"
)

// Config captures the settings for the REST client.
type Config struct {
	// BaseURL is the versioned API root, e.g. "http://localhost:8081/api/v1".
	BaseURL string
	Timeout time.Duration
	// Currency is assumed for prices that arrive as bare numbers.
	Currency string
}

// Client is a thin JSON client for the storefront backend. A bearer token
// set after login is attached to every subsequent request.
type Client struct {
	http     *http.Client
	baseURL  string
	currency string
	check    *schemaValidator
	log      zerolog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		currency: currency,
		check:    newSchemaValidator(),
		log:      log,
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// do performs one round trip. Non-2xx statuses map onto the domain error
// taxonomy: 401 → ErrInvalidCredentials, 404 → ErrNotFound, everything else
// (and transport failures) → ErrFetchFailed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrFetchFailed, method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s: status %d", domain.ErrFetchFailed, method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", domain.ErrFetchFailed, method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
