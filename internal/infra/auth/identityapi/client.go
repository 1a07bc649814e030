// Package identityapi verifies bearer credentials against the managed auth
// endpoint that issued them.
package identityapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/config"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
)

const defaultHTTPTimeout = 5 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.AuthAPIURL), "/")
	if baseURL == "" {
		return nil, errors.New("AUTH_API_URL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.AuthAPIKey),
		timeout:    cfg.AuthTimeout(),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyCredential exchanges the caller's bearer credential for a verified
// identity. Any rejection by the auth endpoint collapses to
// ErrUnauthenticated; transport failures are returned as-is so callers can
// attribute them separately.
func (c *Client) VerifyCredential(ctx context.Context, credential string) (domain.Identity, error) {
	if c == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	var user userResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return domain.Identity{}, fmt.Errorf("auth endpoint: decode user: %w", err)
	}
	if user.ID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return domain.Identity{UserID: user.ID, Email: user.Email}, nil
}
