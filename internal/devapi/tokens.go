package devapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	AccountID string `json:"account_id"`
	ProfileID string `json:"profile_id,omitempty"`
	Epoch     int    `json:"epoch"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

func newID() string { return uuid.NewString() }

func (s *Server) issue(accountID, profileID string) (string, error) {
	now := s.now()
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	c := &claims{
		AccountID: accountID,
		ProfileID: profileID,
		Epoch:     epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "dyscreen-dev",
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Server) parse(tokenStr string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Epoch != s.epoch {
		return nil, errors.New("token revoked")
	}
	return c, nil
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer")
			return
		}
		c, err := s.parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "bad token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c)))
	})
}

func requireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r).ProfileID == "" {
			writeError(w, http.StatusForbidden, "select a profile first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) *claims {
	c, _ := r.Context().Value(ctxKey{}).(*claims)
	if c == nil {
		return &claims{}
	}
	return c
}
