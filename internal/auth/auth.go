// Package auth keeps the backend tokens between runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StorageKey is where credentials are persisted.
const StorageKey = "auth"

// ErrNoExpiry is returned by Expiry for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

// Storage is the key-value persistence credentials live in.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Resetter is local state wiped on logout.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Credentials are the persisted tokens.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	ProfileToken string `json:"profile_token,omitempty"`
	ProfileID    string `json:"profile_id,omitempty"`
}

// LoggedIn reports whether an access token is present.
func (c Credentials) LoggedIn() bool { return c.AccessToken != "" }

// Bearer is the token sent with requests: the profile token when a child
// profile is selected, otherwise the account token.
func (c Credentials) Bearer() string {
	if c.ProfileToken != "" {
		return c.ProfileToken
	}
	return c.AccessToken
}

// Expired reports whether the bearer token's exp claim is before now.
// Tokens without a readable expiry are treated as live; the server decides.
func (c Credentials) Expired(now time.Time) bool {
	tok := c.Bearer()
	if tok == "" {
		return true
	}
	exp, err := Expiry(tok)
	if err != nil {
		return false
	}
	return !now.Before(exp)
}

// Expiry reads the exp claim without verifying the signature.
func Expiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Store caches credentials in memory and writes every change through.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	creds   Credentials
}

// NewStore loads persisted credentials, if any.
func NewStore(ctx context.Context, s Storage) (*Store, error) {
	st := &Store{storage: s}
	raw, ok, err := s.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &st.creds); err != nil {
			return nil, fmt.Errorf("decode credentials: %w", err)
		}
	}
	return st, nil
}

// Current returns a copy of the credentials.
func (s *Store) Current() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Token returns the bearer token for requests.
func (s *Store) Token() string {
	return s.Current().Bearer()
}

// SetAccessToken stores a fresh login and drops any selected profile.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	return s.save(ctx, Credentials{AccessToken: token})
}

// SetProfile stores the selected child profile and its token.
func (s *Store) SetProfile(ctx context.Context, profileID, token string) error {
	c := s.Current()
	c.ProfileID = profileID
	c.ProfileToken = token
	return s.save(ctx, c)
}

// Clear removes the credentials.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	s.creds = Credentials{}
	return nil
}

func (s *Store) save(ctx context.Context, c Credentials) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.creds = c
	return nil
}

// Teardown ends the local session: credentials are cleared and every
// resetter runs. All steps run even if one fails; the first error wins.
func Teardown(ctx context.Context, s *Store, resetters ...Resetter) error {
	first := s.Clear(ctx)
	for _, r := range resetters {
		if err := r.Reset(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
