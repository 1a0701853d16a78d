// Package devapi is an in-memory implementation of the screening backend,
// for local development and client tests.
package devapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/minigame"
)

// Options configures a Server.
type Options struct {
	Secret string
	// Users are "email:password" pairs.
	Users []string
	// SubmitRate and SubmitBurst bound section and minigame submissions.
	SubmitRate  rate.Limit
	SubmitBurst int
	BcryptCost  int
	TokenTTL    time.Duration
	// RequestLog enables chi's request logger.
	RequestLog bool
	Logger     *slog.Logger
	Now        func() time.Time
}

type account struct {
	api.Account
	hash []byte
}

type session struct {
	api.Session
	accountID string
	scores    map[string]int
}

// Server holds all backend state in memory.
type Server struct {
	mu sync.Mutex

	secret  []byte
	ttl     time.Duration
	epoch   int
	now     func() time.Time
	log     *slog.Logger
	limiter *rate.Limiter
	reqLog  bool

	accounts map[string]*account // by email
	profiles map[string]*profileRec
	sessions map[string]*session
	attempts map[string][]minigame.Attempt
}

type profileRec struct {
	api.Profile
	accountID string
}

// New creates a server seeded with opts.Users.
func New(opts Options) (*Server, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("devapi: secret is required")
	}
	if opts.SubmitRate == 0 {
		opts.SubmitRate = rate.Every(100 * time.Millisecond)
	}
	if opts.SubmitBurst == 0 {
		opts.SubmitBurst = 20
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 8 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		secret:   []byte(opts.Secret),
		ttl:      opts.TokenTTL,
		now:      opts.Now,
		log:      opts.Logger,
		limiter:  rate.NewLimiter(opts.SubmitRate, opts.SubmitBurst),
		reqLog:   opts.RequestLog,
		accounts: make(map[string]*account),
		profiles: make(map[string]*profileRec),
		sessions: make(map[string]*session),
		attempts: make(map[string][]minigame.Attempt),
	}
	for _, u := range opts.Users {
		email, password, ok := strings.Cut(u, ":")
		if !ok || email == "" || password == "" {
			return nil, fmt.Errorf("devapi: bad user %q, want email:password", u)
		}
		if err := s.AddAccount(email, password, opts.BcryptCost); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddAccount registers a login.
func (s *Server) AddAccount(email, password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	s.accounts[key] = &account{
		Account: api.Account{ID: newID(), Email: email, Name: strings.Split(email, "@")[0]},
		hash:    hash,
	}
	return nil
}

// Revoke invalidates every token issued so far.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// Attempts returns the minigame attempts recorded for game.
func (s *Server) Attempts(game string) []minigame.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]minigame.Attempt(nil), s.attempts[game]...)
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if s.reqLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", s.handleLogin)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireToken)

		pr.Get("/account", s.handleAccount)
		pr.Get("/profiles", s.handleListProfiles)
		pr.Post("/profiles", s.handleCreateProfile)
		pr.Put("/profiles/{id}", s.handleUpdateProfile)
		pr.Delete("/profiles/{id}", s.handleDeleteProfile)
		pr.Post("/profiles/{id}/select", s.handleSelectProfile)

		pr.Group(func(cr chi.Router) {
			cr.Use(requireProfile)

			cr.Post("/sessions", s.handleCreateSession)
			cr.Get("/sessions", s.handleListSessions)
			cr.Get("/sessions/{id}", s.handleGetSession)
			cr.With(s.limit).Post("/sessions/{id}/sections/{section}", s.handleSubmitSection)
			cr.With(s.limit).Post("/minigames/{game}/attempts", s.handleSubmitMinigame)
		})
	})
	return r
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
