// Package sessionsync keeps local progress in line with the backend session
// and submits finished tests.
package sessionsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/scoring"
)

// ErrSubmitInFlight is returned when a submission is already running.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// Backend is the part of the API the sync layer needs.
type Backend interface {
	CreateSession(ctx context.Context) (api.Session, error)
	Session(ctx context.Context, id string) (api.Session, error)
	SubmitSection(ctx context.Context, sessionID string, section catalog.TestType, sub api.SectionSubmission) (api.Session, error)
}

// ResultSaver keeps the latest result of each test.
type ResultSaver interface {
	Save(ctx context.Context, res scoring.Result) error
}

// Syncer reconciles the tracker with the server session.
type Syncer struct {
	backend Backend
	tracker *progress.Tracker
}

// NewSyncer returns a Syncer that keeps t in step with the backend.
func NewSyncer(b Backend, t *progress.Tracker) *Syncer {
	return &Syncer{backend: b, tracker: t}
}

// Sync fetches the current session and lets the server's completion flags
// replace the local ones. It does nothing when no session is recorded.
func (s *Syncer) Sync(ctx context.Context) (api.Session, bool, error) {
	id := s.tracker.SessionID()
	if id == "" {
		return api.Session{}, false, nil
	}
	sess, err := s.backend.Session(ctx, id)
	if err != nil {
		return api.Session{}, false, fmt.Errorf("sync session: %w", err)
	}
	if err := s.tracker.SyncWithSession(ctx, sess); err != nil {
		return api.Session{}, false, err
	}
	return sess, true, nil
}

// Start creates a new session and makes it current.
func (s *Syncer) Start(ctx context.Context) (api.Session, error) {
	sess, err := s.backend.CreateSession(ctx)
	if err != nil {
		return api.Session{}, fmt.Errorf("start session: %w", err)
	}
	if err := s.tracker.SyncWithSession(ctx, sess); err != nil {
		return api.Session{}, err
	}
	return sess, nil
}

// Coordinator completes tests: submit, record, sync, pick the next test.
type Coordinator struct {
	syncer   *Syncer
	backend  Backend
	tracker  *progress.Tracker
	results  ResultSaver
	log      *slog.Logger
	inFlight atomic.Bool
}

// NewCoordinator builds a coordinator. results may be nil.
func NewCoordinator(b Backend, t *progress.Tracker, results ResultSaver, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		syncer:  NewSyncer(b, t),
		backend: b,
		tracker: t,
		results: results,
		log:     log,
	}
}

// Syncer returns the coordinator's syncer.
func (c *Coordinator) Syncer() *Syncer { return c.syncer }

// Busy reports whether a submission is running.
func (c *Coordinator) Busy() bool { return c.inFlight.Load() }

// Outcome is what CompleteTest reports back.
type Outcome struct {
	Session api.Session
	Next    catalog.TestType
	HasNext bool
}

// CompleteTest submits a finished test. A failed submission leaves local
// progress unchanged so the user can retry.
func (c *Coordinator) CompleteTest(ctx context.Context, t catalog.TestType, res scoring.Result, rating int) (Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	if !t.Valid() {
		return Outcome{}, fmt.Errorf("%w: %q", progress.ErrUnknownTest, t)
	}

	sessionID := c.tracker.SessionID()
	if sessionID == "" {
		sess, err := c.syncer.Start(ctx)
		if err != nil {
			return Outcome{}, err
		}
		sessionID = sess.ID
	}

	score := SectionScore(res)
	sess, err := c.backend.SubmitSection(ctx, sessionID, t, api.SectionSubmission{
		Score:   score,
		Details: Details(res, rating),
	})
	if err != nil {
		c.log.Warn("section submit failed", "test", t, "error", err)
		return Outcome{}, err
	}

	if err := c.tracker.MarkComplete(ctx, t, progress.Completion{Score: score, DifficultyRating: rating}); err != nil {
		return Outcome{}, err
	}
	if c.results != nil {
		if err := c.results.Save(ctx, res); err != nil {
			c.log.Warn("save result failed", "test", t, "error", err)
		}
	}

	if synced, ok, err := c.syncer.Sync(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return Outcome{}, err
		}
		// The submit response is already authoritative for this section.
		c.log.Warn("post-submit sync failed", "error", err)
		if err := c.tracker.SyncWithSession(ctx, sess); err != nil {
			return Outcome{}, err
		}
	} else if ok {
		sess = synced
	}

	next, hasNext := c.tracker.NextIncomplete()
	c.log.Info("test completed", "test", t, "score", score, "risk", res.Risk, "next", next)
	return Outcome{Session: sess, Next: next, HasNext: hasNext}, nil
}

// SectionScore is the 0..100 score submitted for a test: the weighted score
// for language, the rounded percentage otherwise.
func SectionScore(res scoring.Result) int {
	if res.Weighted != nil {
		return res.Weighted.Score
	}
	return int(math.Round(res.Percentage))
}

// Details is the free-form payload sent along with a section score.
func Details(res scoring.Result, rating int) map[string]any {
	modules := make(map[string]any, len(res.Modules))
	for _, m := range res.SortedModules() {
		modules[string(m.Module)] = map[string]any{
			"score":      m.Score,
			"max_score":  m.MaxScore,
			"percentage": m.Percentage,
		}
	}
	d := map[string]any{
		"percentage":        res.Percentage,
		"risk":              string(res.Risk),
		"underperforming":   res.Underperforming,
		"answered":          res.Answered,
		"duration_ms":       res.Duration.Milliseconds(),
		"difficulty_rating": rating,
		"modules":           modules,
	}
	if res.Weighted != nil {
		d["weighted_raw"] = res.Weighted.Raw
	}
	return d
}
