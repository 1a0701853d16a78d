package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/auth"
	"github.com/abhisek/dyscreen/internal/config"
	"github.com/abhisek/dyscreen/internal/logging"
	"github.com/abhisek/dyscreen/internal/minigame"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/question"
	"github.com/abhisek/dyscreen/internal/screens"
	"github.com/abhisek/dyscreen/internal/sessionsync"
	"github.com/abhisek/dyscreen/internal/store"
)

var timeNow = time.Now

// errNotLoggedIn is returned by commands that need the backend.
var errNotLoggedIn = errors.New("not logged in; run `dyscreen login` first")

// env is everything a command needs: config, logger, the local store and
// the backend client wired to the persisted credentials.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	store   *store.Store
	tracker *progress.Tracker
	creds   *auth.Store
	client  *api.Client

	logCloser io.Closer
}

// openEnv loads configuration, opens the store and restores local state.
// Failing to open the store is the only fatal startup error.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.APIURL = u
	}

	log, closer, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		log, closer, _ = logging.New(logging.Options{})
	}

	dsn, err := resolveDBPath(cmd, cfg.DBDriver, cfg.DBPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBDriver, dsn)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{cfg: cfg, log: log, store: st, logCloser: closer}
	if e.tracker, err = progress.New(ctx, st.KV()); err != nil {
		e.Close()
		return nil, err
	}
	if e.creds, err = auth.NewStore(ctx, st.KV()); err != nil {
		e.Close()
		return nil, err
	}

	e.client = api.New(cfg.APIURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithToken(e.creds.Token),
		api.WithOnUnauthorized(func(ctx context.Context) {
			log.Warn("backend rejected credentials, signing out")
			if err := auth.Teardown(ctx, e.creds, e.tracker); err != nil {
				log.Error("teardown failed", "error", err)
			}
		}),
	)
	log.Debug("env ready", "driver", cfg.DBDriver, "api", cfg.APIURL)
	return e, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.logCloser.Close()
}

// loggedIn reports whether a usable, unexpired token is stored.
func (e *env) loggedIn() bool {
	c := e.creds.Current()
	return c.LoggedIn() && !c.Expired(timeNow())
}

// requireLogin fails fast for backend commands without credentials.
func (e *env) requireLogin() error {
	if !e.loggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// coordinator submits through the backend.
func (e *env) coordinator() *sessionsync.Coordinator {
	return sessionsync.NewCoordinator(e.client, e.tracker, e.store.Results(), e.log)
}

// completer picks the backend coordinator when logged in with a child
// profile, the offline completer otherwise.
func (e *env) completer() sessionsync.Completer {
	c := e.creds.Current()
	if e.loggedIn() && c.ProfileToken != "" {
		return e.coordinator()
	}
	return sessionsync.NewOffline(e.tracker, e.store.Results(), e.log)
}

// bank loads the configured question bank, falling back to the built-in
// set with a warning.
func (e *env) bank() *question.Bank {
	b, err := question.Load(e.cfg.QuestionBank)
	if err != nil {
		e.log.Warn("question bank unavailable, using fallback", "path", e.cfg.QuestionBank, "error", err)
		fmt.Fprintln(os.Stderr, "Question bank could not be loaded, using the built-in set:", err)
	}
	return b
}

// deps builds what the TUI screens share.
func (e *env) deps() screens.Deps {
	d := screens.Deps{
		Bank:      e.bank(),
		Tracker:   e.tracker,
		Completer: e.completer(),
		Answers:   e.store.Answers(),
		Results:   e.store.Results(),
		Rewards:   minigame.NewRewardStore(e.store.KV()),
		Log:       e.log,
	}
	if c := e.creds.Current(); e.loggedIn() && c.ProfileToken != "" {
		d.Attempts = e.client
		d.Sessions = e.client
		d.Online = true
	}
	return d
}
