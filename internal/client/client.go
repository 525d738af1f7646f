// Package client talks to the rakta HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrMissingToken indicates a call that needs a session was made without one.
var ErrMissingToken = errors.New("rakta: not signed in")

// Options configures the API client.
type Options struct {
	BaseURL        string
	Token          string
	Locale         string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the rakta API.
type Client struct {
	baseURL    string
	token      string
	locale     string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("rakta: %s (%d)", msg, e.Status)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, problem := range e.Fields {
		parts = append(parts, field+": "+problem)
	}
	return fmt.Sprintf("rakta: %s (%d): %s", msg, e.Status, strings.Join(parts, "; "))
}

// IsUnauthorized reports whether err is a 401 from the API or a missing token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrMissingToken) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// NewClient constructs a client with defaults for anything left unset.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("rakta: server url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("rakta: invalid server url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		locale:     strings.TrimSpace(opts.Locale),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Token returns the bearer token the client sends.
func (c *Client) Token() string {
	return c.token
}

// SetToken replaces the bearer token, typically after SignIn.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// SignUp registers an account and stores the returned token on the client.
func (c *Client) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", nil, in, &out, false); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignIn exchanges credentials for a session and stores its token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", nil, body, &out, false); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignOut revokes the current token server side and forgets it locally.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signout", nil, nil, nil, true); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// ForgotPassword starts a reset. The token is only returned by development servers.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		ResetToken string `json:"reset_token"`
	}
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/password/forgot", nil, body, &out, false); err != nil {
		return "", err
	}
	return out.ResetToken, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password, "confirm_password": password}
	return c.do(ctx, http.MethodPost, "/v1/auth/password/reset", nil, body, nil, false)
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAvailability toggles whether the user can be asked to donate.
func (c *Client) SetAvailability(ctx context.Context, available bool) (*Profile, error) {
	var out Profile
	body := map[string]bool{"available": available}
	if err := c.do(ctx, http.MethodPut, "/v1/me/availability", nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard returns the activity snapshot. With refresh it asks the server
// to recompute before answering.
func (c *Client) Dashboard(ctx context.Context, refresh bool) (*Dashboard, error) {
	method, path := http.MethodGet, "/v1/dashboard"
	if refresh {
		method, path = http.MethodPost, "/v1/dashboard/refresh"
	}
	var out Dashboard
	if err := c.do(ctx, method, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Donate records a donation for the signed-in user.
func (c *Client) Donate(ctx context.Context, in DonationInput) (*Donation, error) {
	var out Donation
	if err := c.do(ctx, http.MethodPost, "/v1/donations", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestBlood opens a blood request that donors of the group get notified about.
func (c *Client) RequestBlood(ctx context.Context, in BloodRequestInput) (*BloodRequest, error) {
	var out BloodRequest
	if err := c.do(ctx, http.MethodPost, "/v1/requests", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRequests returns the most recent open requests.
func (c *Client) ListRequests(ctx context.Context, limit int) ([]BloodRequest, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Items []BloodRequest `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/requests", q, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// BloodBanks lists blood banks. An empty country lets the server pick one
// from the caller's locale or address.
func (c *Client) BloodBanks(ctx context.Context, country, city string) (*BloodBankList, error) {
	q := url.Values{}
	if country = strings.TrimSpace(country); country != "" {
		q.Set("country", country)
	}
	if city = strings.TrimSpace(city); city != "" {
		q.Set("city", city)
	}
	var out BloodBankList
	if err := c.do(ctx, http.MethodGet, "/v1/bloodbanks", q, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, auth bool) error {
	if auth && c.token == "" {
		return ErrMissingToken
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rakta: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("rakta: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.locale != "" {
		req.Header.Set("X-Locale", c.locale)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rakta: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rakta: read response: %w", err)
	}
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("rakta: api call")

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env errorEnvelope
		if err := json.Unmarshal(raw, &env); err == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Fields
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("rakta: decode response: %w", err)
	}
	return nil
}
