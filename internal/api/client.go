// Package api is the client for the screening backend: accounts, child
// profiles, sessions, section scores and minigame attempts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/minigame"
)

// DefaultTimeout applies to every request. There are no retries.
const DefaultTimeout = 15 * time.Second

// Client talks JSON over HTTP to the backend.
type Client struct {
	baseURL        string
	http           *http.Client
	token          func() string
	onUnauthorized func(ctx context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout replaces the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token source. An empty token sends no
// Authorization header.
func WithToken(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithOnUnauthorized registers a hook called when the backend rejects the
// stored token with a 401. A 401 from Login means wrong credentials and does
// not call it.
func WithOnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out, false); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return out.AccessToken, nil
}

// Account returns the signed-in account.
func (c *Client) Account(ctx context.Context) (Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/account", nil, &out); err != nil {
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	return out, nil
}

// Profiles lists the child profiles of the account.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := c.do(ctx, http.MethodGet, "/profiles", nil, &out); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// CreateProfile adds a child profile.
func (c *Client) CreateProfile(ctx context.Context, in ProfileInput) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/profiles", in, &out); err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return out, nil
}

// UpdateProfile replaces the name and age of a profile.
func (c *Client) UpdateProfile(ctx context.Context, id string, in ProfileInput) (Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/profiles/"+url.PathEscape(id), in, &out); err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return out, nil
}

// DeleteProfile removes a child profile.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/profiles/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// SelectProfile returns a token scoped to the child profile.
func (c *Client) SelectProfile(ctx context.Context, id string) (string, error) {
	var out selectResponse
	if err := c.do(ctx, http.MethodPost, "/profiles/"+url.PathEscape(id)+"/select", nil, &out); err != nil {
		return "", fmt.Errorf("select profile: %w", err)
	}
	return out.ProfileToken, nil
}

// CreateSession starts a screening session for the selected profile.
func (c *Client) CreateSession(ctx context.Context) (Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/sessions", struct{}{}, &out); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return out, nil
}

// Session fetches one session by id.
func (c *Client) Session(ctx context.Context, id string) (Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &out); err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return out, nil
}

// Sessions lists the sessions of the selected profile.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// SubmitSection records the score of one test on the session.
func (c *Client) SubmitSection(ctx context.Context, sessionID string, section catalog.TestType, sub SectionSubmission) (Session, error) {
	var out Session
	path := "/sessions/" + url.PathEscape(sessionID) + "/sections/" + url.PathEscape(string(section))
	if err := c.do(ctx, http.MethodPost, path, sub, &out); err != nil {
		return Session{}, fmt.Errorf("submit %s: %w", section, err)
	}
	return out, nil
}

// SubmitMinigame records one minigame attempt.
func (c *Client) SubmitMinigame(ctx context.Context, game string, a minigame.Attempt) error {
	if err := c.do(ctx, http.MethodPost, "/minigames/"+url.PathEscape(game)+"/attempts", a, nil); err != nil {
		return fmt.Errorf("submit %s attempt: %w", game, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	return c.send(ctx, method, path, in, out, true)
}

// send performs one request. Unauthenticated requests carry no bearer token
// and never trigger the unauthorized hook.
func (c *Client) send(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); authed && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: readMessage(resp.Body)}
		if authed && resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var er errorResponse
	if json.Unmarshal(b, &er) == nil && er.Error != "" {
		return er.Error
	}
	return strings.TrimSpace(string(b))
}
