// Package screens holds what the TUI screens share: their dependencies and
// cross-screen messages.
package screens

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/logging"
	"github.com/abhisek/dyscreen/internal/minigame"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/question"
	"github.com/abhisek/dyscreen/internal/scoring"
	"github.com/abhisek/dyscreen/internal/sessionsync"
)

// AnswerLog persists answers as they are given.
type AnswerLog interface {
	Append(ctx context.Context, a scoring.Answer) error
	Clear(ctx context.Context, t catalog.TestType) error
}

// ResultReader loads stored test results.
type ResultReader interface {
	All(ctx context.Context) (map[catalog.TestType]scoring.Result, error)
}

// AttemptSubmitter sends a minigame attempt to the backend.
type AttemptSubmitter interface {
	SubmitMinigame(ctx context.Context, game string, a minigame.Attempt) error
}

// SessionLister lists the backend sessions of the selected profile.
type SessionLister interface {
	Sessions(ctx context.Context) ([]api.Session, error)
}

// Deps is passed to every screen. Answers, Results, Rewards, Attempts and
// Sessions may be nil.
type Deps struct {
	Bank      *question.Bank
	Tracker   *progress.Tracker
	Completer sessionsync.Completer
	Answers   AnswerLog
	Results   ResultReader
	Rewards   *minigame.RewardStore
	Attempts  AttemptSubmitter
	Sessions  SessionLister
	Online    bool
	Log       *slog.Logger
	Now       func() time.Time
	// QuestionTime is the per-question countdown; zero means the default.
	QuestionTime time.Duration
}

// DefaultQuestionTime is how long a question waits before it is recorded
// as unanswered.
const DefaultQuestionTime = 60 * time.Second

// Clock returns d.Now or time.Now.
func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Logger returns d.Log or a discarding logger.
func (d Deps) Logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}

// Countdown returns the per-question time limit.
func (d Deps) Countdown() time.Duration {
	if d.QuestionTime > 0 {
		return d.QuestionTime
	}
	return DefaultQuestionTime
}

// ToastMsg asks the active screen to show a one-line notice.
type ToastMsg struct {
	Text string
}

// StartTestMsg asks the app to open the flow of a test. Replace swaps the
// active screen instead of pushing.
type StartTestMsg struct {
	Test    catalog.TestType
	Replace bool
}
