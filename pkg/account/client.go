package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-orderwizard/internal/httpx"
)

// Client talks to the auth service: register, login, profile patch, and the
// OAuth redirect entry point. The service itself is external; this is the
// request/response contract only.
type Client struct {
	baseURL string
	http    *httpx.Client
}

// Option customises the account client.
type Option func(*Client)

// WithHTTPOptions forwards options to the underlying JSON client.
func WithHTTPOptions(options ...httpx.Option) Option {
	return func(c *Client) {
		c.http = httpx.New(options...)
	}
}

// NewClient constructs a Client rooted at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("account: base url is required")
	}
	c := &Client{
		baseURL: trimmed,
		http:    httpx.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// RegisterRequest creates a new customer account mid-wizard.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest authenticates an existing customer.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success    bool   `json:"success"`
	Token      string `json:"token"`
	CustomerID string `json:"customerId"`
	Email      string `json:"email"`
	Error      string `json:"error,omitempty"`
}

// AuthError carries the server-side failure message shown on the account
// step. It never aborts the wizard.
type AuthError struct {
	Message string
}

func (e AuthError) Error() string { return e.Message }

// Register creates an account and returns the resulting session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	return c.session(ctx, c.baseURL+"/auth/register", req)
}

// Login authenticates and returns the resulting session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (Session, error) {
	return c.session(ctx, c.baseURL+"/auth/login", req)
}

func (c *Client) session(ctx context.Context, endpoint string, payload any) (Session, error) {
	var resp sessionResponse
	if err := c.http.PostJSON(ctx, endpoint, payload, &resp); err != nil {
		var status httpx.StatusError
		if errors.As(err, &status) && status.Body != "" {
			return Session{}, AuthError{Message: status.Body}
		}
		return Session{}, fmt.Errorf("account: request session: %w", err)
	}
	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = "authentication failed"
		}
		return Session{}, AuthError{Message: message}
	}
	return Session{
		Authenticated: true,
		Email:         resp.Email,
		CustomerID:    resp.CustomerID,
		Token:         resp.Token,
	}, nil
}

// ProfilePatch updates customer profile fields after authentication.
type ProfilePatch struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UpdateProfile patches the authenticated customer's profile.
func (c *Client) UpdateProfile(ctx context.Context, session Session, patch ProfilePatch) error {
	if !session.Authenticated {
		return errors.New("account: session required")
	}
	client := httpx.New(httpx.WithHeader("Authorization", "Bearer "+session.Token))
	if err := client.PatchJSON(ctx, c.baseURL+"/auth/profile", patch, nil); err != nil {
		return fmt.Errorf("account: update profile: %w", err)
	}
	return nil
}

// OAuthURL builds the external identity-provider entry point. returnStep is
// encoded so the wizard can resume where the customer left off.
func (c *Client) OAuthURL(provider string, returnStep int) string {
	values := url.Values{}
	values.Set("provider", provider)
	values.Set("returnStep", strconv.Itoa(returnStep))
	return c.baseURL + "/auth/oauth?" + values.Encode()
}
