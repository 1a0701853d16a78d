// Package progress tracks which main tests are complete and persists that
// state on every change.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/dyscreen/internal/catalog"
)

// StorageKey is the key the progress object is persisted under.
const StorageKey = "test_progress"

// ErrUnknownTest is returned for test types outside the fixed set.
var ErrUnknownTest = errors.New("unknown test type")

// Storage is the key-value persistence the tracker writes through.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Session is the server view of a session used for reconciliation.
type Session interface {
	SessionID() string
	Taken(t catalog.TestType) bool
}

// TestState is the progress of one test type.
type TestState struct {
	Completed        bool
	CompletedAt      time.Time
	Score            int
	DifficultyRating int
}

// Completion is what MarkComplete records.
type Completion struct {
	Score            int
	DifficultyRating int
}

// State is a copy of the tracker contents.
type State struct {
	Tests            map[catalog.TestType]TestState
	CurrentSessionID string
}

// Done reports whether every test is complete.
func (s State) Done() bool {
	for _, t := range catalog.AllTests() {
		if !s.Tests[t].Completed {
			return false
		}
	}
	return true
}

// Tracker is the single writer of persisted progress. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	storage Storage
	now     func() time.Time
	state   State
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a tracker and rehydrates it from storage when a persisted copy
// exists.
func New(ctx context.Context, storage Storage, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		storage: storage,
		now:     time.Now,
		state:   emptyState(),
	}
	for _, opt := range opts {
		opt(t)
	}

	raw, ok, err := storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if ok {
		st, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		t.state = st
	}
	return t, nil
}

// MarkComplete records a finished test and persists the result.
func (t *Tracker) MarkComplete(ctx context.Context, tt catalog.TestType, c Completion) error {
	if !tt.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTest, tt)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.copyLocked()
	next.Tests[tt] = TestState{
		Completed:        true,
		CompletedAt:      t.now().UTC(),
		Score:            c.Score,
		DifficultyRating: c.DifficultyRating,
	}
	return t.commitLocked(ctx, next)
}

// NextIncomplete returns the first incomplete test in priority order.
func (t *Tracker) NextIncomplete() (catalog.TestType, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return nextIncomplete(t.state)
}

// IsComplete reports whether the test is complete.
func (t *Tracker) IsComplete(tt catalog.TestType) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Tests[tt].Completed
}

// SessionID returns the current session id, "" when none.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.CurrentSessionID
}

// SyncWithSession overwrites the completion flags with the server's and
// adopts the session id. Scores and ratings are left alone.
func (t *Tracker) SyncWithSession(ctx context.Context, s Session) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.copyLocked()
	for _, tt := range catalog.AllTests() {
		st := next.Tests[tt]
		st.Completed = s.Taken(tt)
		next.Tests[tt] = st
	}
	next.CurrentSessionID = s.SessionID()
	return t.commitLocked(ctx, next)
}

// SetSession records the session the tests are submitted to.
func (t *Tracker) SetSession(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.copyLocked()
	next.CurrentSessionID = id
	return t.commitLocked(ctx, next)
}

// Reset clears all progress and removes the persisted copy.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	t.state = emptyState()
	return nil
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copyLocked()
}

// commitLocked persists next and only then makes it current, so a failed
// write leaves memory and storage in agreement.
func (t *Tracker) commitLocked(ctx context.Context, next State) error {
	raw, err := encode(next)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := t.storage.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	t.state = next
	return nil
}

func (t *Tracker) copyLocked() State {
	out := State{
		Tests:            make(map[catalog.TestType]TestState, len(t.state.Tests)),
		CurrentSessionID: t.state.CurrentSessionID,
	}
	for k, v := range t.state.Tests {
		out.Tests[k] = v
	}
	return out
}

func nextIncomplete(s State) (catalog.TestType, bool) {
	for _, tt := range catalog.AllTests() {
		if !s.Tests[tt].Completed {
			return tt, true
		}
	}
	return "", false
}

func emptyState() State {
	s := State{Tests: make(map[catalog.TestType]TestState)}
	for _, tt := range catalog.AllTests() {
		s.Tests[tt] = TestState{}
	}
	return s
}

// Wire format. Times are RFC3339 strings.

type testJSON struct {
	Completed        bool    `json:"completed"`
	CompletedAt      *string `json:"completed_at"`
	Score            int     `json:"score"`
	DifficultyRating int     `json:"difficulty_rating"`
}

type stateJSON struct {
	Auditory         testJSON `json:"auditory"`
	Visual           testJSON `json:"visual"`
	Language         testJSON `json:"language"`
	CurrentSessionID *string  `json:"current_session_id"`
}

func encode(s State) ([]byte, error) {
	conv := func(ts TestState) testJSON {
		out := testJSON{
			Completed:        ts.Completed,
			Score:            ts.Score,
			DifficultyRating: ts.DifficultyRating,
		}
		if !ts.CompletedAt.IsZero() {
			v := ts.CompletedAt.Format(time.RFC3339)
			out.CompletedAt = &v
		}
		return out
	}
	w := stateJSON{
		Auditory: conv(s.Tests[catalog.Auditory]),
		Visual:   conv(s.Tests[catalog.Visual]),
		Language: conv(s.Tests[catalog.Language]),
	}
	if s.CurrentSessionID != "" {
		w.CurrentSessionID = &s.CurrentSessionID
	}
	return json.Marshal(w)
}

func decode(raw []byte) (State, error) {
	var w stateJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return State{}, err
	}
	conv := func(tj testJSON) (TestState, error) {
		ts := TestState{
			Completed:        tj.Completed,
			Score:            tj.Score,
			DifficultyRating: tj.DifficultyRating,
		}
		if tj.CompletedAt != nil {
			at, err := time.Parse(time.RFC3339, *tj.CompletedAt)
			if err != nil {
				return TestState{}, fmt.Errorf("completed_at: %w", err)
			}
			ts.CompletedAt = at
		}
		return ts, nil
	}

	s := emptyState()
	for tt, tj := range map[catalog.TestType]testJSON{
		catalog.Auditory: w.Auditory,
		catalog.Visual:   w.Visual,
		catalog.Language: w.Language,
	} {
		ts, err := conv(tj)
		if err != nil {
			return State{}, fmt.Errorf("%s: %w", tt, err)
		}
		s.Tests[tt] = ts
	}
	if w.CurrentSessionID != nil {
		s.CurrentSessionID = *w.CurrentSessionID
	}
	return s, nil
}
