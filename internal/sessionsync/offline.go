package sessionsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/scoring"
)

// Completer finishes a test. Coordinator submits to the backend; Offline
// only records locally.
type Completer interface {
	CompleteTest(ctx context.Context, t catalog.TestType, res scoring.Result, rating int) (Outcome, error)
}

var (
	_ Completer = (*Coordinator)(nil)
	_ Completer = (*Offline)(nil)
)

// Offline completes tests without a backend. Nothing is submitted; a later
// `dyscreen sync` run starts a session from scratch.
type Offline struct {
	tracker  *progress.Tracker
	results  ResultSaver
	log      *slog.Logger
	inFlight atomic.Bool
}

// NewOffline builds an offline completer. results may be nil.
func NewOffline(t *progress.Tracker, results ResultSaver, log *slog.Logger) *Offline {
	if log == nil {
		log = slog.Default()
	}
	return &Offline{tracker: t, results: results, log: log}
}

// CompleteTest marks t complete and saves res locally.
func (o *Offline) CompleteTest(ctx context.Context, t catalog.TestType, res scoring.Result, rating int) (Outcome, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmitInFlight
	}
	defer o.inFlight.Store(false)

	if !t.Valid() {
		return Outcome{}, fmt.Errorf("%w: %q", progress.ErrUnknownTest, t)
	}
	score := SectionScore(res)
	if err := o.tracker.MarkComplete(ctx, t, progress.Completion{Score: score, DifficultyRating: rating}); err != nil {
		return Outcome{}, err
	}
	if o.results != nil {
		if err := o.results.Save(ctx, res); err != nil {
			o.log.Warn("save result failed", "test", t, "error", err)
		}
	}
	next, hasNext := o.tracker.NextIncomplete()
	o.log.Info("test completed offline", "test", t, "score", score, "risk", res.Risk)
	return Outcome{Next: next, HasNext: hasNext}, nil
}
