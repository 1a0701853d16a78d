package sessionsync

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/auth"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/devapi"
	"github.com/abhisek/dyscreen/internal/logging"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/scoring"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, k string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, k string, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k] = v
	return nil
}

func (m *memKV) Delete(_ context.Context, k string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, k)
	return nil
}

type savedResults struct{ got []scoring.Result }

func (s *savedResults) Save(_ context.Context, r scoring.Result) error {
	s.got = append(s.got, r)
	return nil
}

type env struct {
	srv     *devapi.Server
	client  *api.Client
	creds   *auth.Store
	tracker *progress.Tracker
}

// newEnv logs into a dev backend and selects a child profile.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	srv, err := devapi.New(devapi.Options{
		Secret:     "x",
		Users:      []string{"p@example.com:pw"},
		BcryptCost: bcrypt.MinCost,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	kv := newMemKV()
	creds, err := auth.NewStore(ctx, kv)
	require.NoError(t, err)
	tracker, err := progress.New(ctx, kv)
	require.NoError(t, err)

	client := api.New(ts.URL,
		api.WithToken(creds.Token),
		api.WithOnUnauthorized(func(ctx context.Context) { _ = auth.Teardown(ctx, creds, tracker) }),
	)
	tok, err := client.Login(ctx, "p@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, creds.SetAccessToken(ctx, tok))
	p, err := client.CreateProfile(ctx, api.ProfileInput{Name: "Sam", Age: 8})
	require.NoError(t, err)
	ptok, err := client.SelectProfile(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, creds.SetProfile(ctx, p.ID, ptok))

	return &env{srv: srv, client: client, creds: creds, tracker: tracker}
}

func result(t catalog.TestType, pct float64, risk scoring.RiskLevel) scoring.Result {
	return scoring.Result{TestType: t, Percentage: pct, Risk: risk}
}

func TestSyncWithoutSession(t *testing.T) {
	e := newEnv(t)
	_, ok, err := NewSyncer(e.client, e.tracker).Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStartAndSync(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	s := NewSyncer(e.client, e.tracker)

	require.NoError(t, e.tracker.MarkComplete(ctx, catalog.Auditory, progress.Completion{Score: 90}))
	sess, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, e.tracker.SessionID())

	// The new session has nothing taken, and the server wins.
	assert.False(t, e.tracker.IsComplete(catalog.Auditory))
	assert.Equal(t, 90, e.tracker.Snapshot().Tests[catalog.Auditory].Score)

	_, err = e.client.SubmitSection(ctx, sess.ID, catalog.Visual, api.SectionSubmission{Score: 50})
	require.NoError(t, err)
	_, ok, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, e.tracker.IsComplete(catalog.Visual))
}

func TestCompleteTest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	saved := &savedResults{}
	c := NewCoordinator(e.client, e.tracker, saved, logging.Discard())

	out, err := c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 66.6, scoring.RiskMedium), 3)
	require.NoError(t, err)
	assert.True(t, out.HasNext)
	assert.Equal(t, catalog.Visual, out.Next)
	assert.True(t, out.Session.AuditoryTaken)
	assert.Equal(t, 67, out.Session.TotalScore)
	assert.Equal(t, "MEDIUM", out.Session.Result)
	require.Len(t, saved.got, 1)

	st := e.tracker.Snapshot().Tests[catalog.Auditory]
	assert.True(t, st.Completed)
	assert.Equal(t, 67, st.Score)
	assert.Equal(t, 3, st.DifficultyRating)

	lang := result(catalog.Language, 10, scoring.RiskHigh)
	lang.Weighted = &scoring.WeightedScore{Score: 42, Raw: 41.9}
	_, err = c.CompleteTest(ctx, catalog.Visual, result(catalog.Visual, 80, scoring.RiskLow), 1)
	require.NoError(t, err)
	out, err = c.CompleteTest(ctx, catalog.Language, lang, 5)
	require.NoError(t, err)
	assert.False(t, out.HasNext)
	assert.Equal(t, 67+80+42, out.Session.TotalScore)
	assert.Equal(t, "HIGH", out.Session.Result)
}

func TestCompleteTestUnauthorized(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := NewCoordinator(e.client, e.tracker, nil, logging.Discard())
	_, err := c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 90, scoring.RiskLow), 1)
	require.NoError(t, err)

	e.srv.Revoke()
	_, err = c.CompleteTest(ctx, catalog.Visual, result(catalog.Visual, 90, scoring.RiskLow), 1)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	// Teardown cleared tokens and progress.
	assert.False(t, e.creds.Current().LoggedIn())
	assert.False(t, e.tracker.IsComplete(catalog.Auditory))
	assert.Empty(t, e.tracker.SessionID())
	assert.False(t, c.Busy())
}

type blockingBackend struct {
	release chan struct{}
	entered chan struct{}
	fail    error
}

func (b *blockingBackend) CreateSession(context.Context) (api.Session, error) {
	return api.Session{ID: "s1"}, nil
}

func (b *blockingBackend) Session(_ context.Context, id string) (api.Session, error) {
	return api.Session{ID: id, AuditoryTaken: b.fail == nil}, nil
}

func (b *blockingBackend) SubmitSection(_ context.Context, id string, _ catalog.TestType, _ api.SectionSubmission) (api.Session, error) {
	if b.entered != nil {
		close(b.entered)
		<-b.release
	}
	if b.fail != nil {
		return api.Session{}, b.fail
	}
	return api.Session{ID: id, AuditoryTaken: true}, nil
}

func TestCompleteTestSingleFlight(t *testing.T) {
	ctx := context.Background()
	tracker, err := progress.New(ctx, newMemKV())
	require.NoError(t, err)
	b := &blockingBackend{release: make(chan struct{}), entered: make(chan struct{})}
	c := NewCoordinator(b, tracker, nil, logging.Discard())

	done := make(chan error, 1)
	go func() {
		_, err := c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 50, scoring.RiskMedium), 2)
		done <- err
	}()

	select {
	case <-b.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never started")
	}
	assert.True(t, c.Busy())
	_, err = c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 50, scoring.RiskMedium), 2)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(b.release)
	require.NoError(t, <-done)
	assert.True(t, tracker.IsComplete(catalog.Auditory))
}

func TestCompleteTestFailureLeavesTracker(t *testing.T) {
	ctx := context.Background()
	tracker, err := progress.New(ctx, newMemKV())
	require.NoError(t, err)
	b := &blockingBackend{fail: errors.New("network down")}
	c := NewCoordinator(b, tracker, nil, logging.Discard())

	_, err = c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 50, scoring.RiskMedium), 2)
	require.Error(t, err)
	assert.False(t, tracker.IsComplete(catalog.Auditory))
	assert.Equal(t, "s1", tracker.SessionID())

	// Retry works once the backend recovers.
	b.fail = nil
	_, err = c.CompleteTest(ctx, catalog.Auditory, result(catalog.Auditory, 50, scoring.RiskMedium), 2)
	require.NoError(t, err)
	assert.True(t, tracker.IsComplete(catalog.Auditory))
}

func TestSectionScoreAndDetails(t *testing.T) {
	res := scoring.Result{
		Percentage: 49.5,
		Risk:       scoring.RiskHigh,
		Modules: map[catalog.Module]scoring.ModuleScore{
			catalog.Decoding: {Module: catalog.Decoding, Score: 1, MaxScore: 2, Percentage: 50},
		},
	}
	assert.Equal(t, 50, SectionScore(res))
	d := Details(res, 4)
	assert.Equal(t, "HIGH", d["risk"])
	assert.Equal(t, 4, d["difficulty_rating"])
	assert.Contains(t, d["modules"], "decoding")
}
