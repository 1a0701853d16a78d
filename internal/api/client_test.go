package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/dyscreen/internal/api"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/devapi"
	"github.com/abhisek/dyscreen/internal/logging"
	"github.com/abhisek/dyscreen/internal/minigame"
)

func newBackend(t *testing.T) (*devapi.Server, string) {
	t.Helper()
	srv, err := devapi.New(devapi.Options{
		Secret:     "test-secret",
		Users:      []string{"parent@example.com:hunter2"},
		BcryptCost: bcrypt.MinCost,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

func TestClientFlow(t *testing.T) {
	ctx := context.Background()
	srv, url := newBackend(t)

	var token string
	c := api.New(url, api.WithToken(func() string { return token }))

	_, err := c.Login(ctx, "parent@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	token, err = c.Login(ctx, "parent@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	acct, err := c.Account(ctx)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", acct.Email)

	p, err := c.CreateProfile(ctx, api.ProfileInput{Name: "Ada", Age: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	p, err = c.UpdateProfile(ctx, p.ID, api.ProfileInput{Name: "Ada L", Age: 8})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", p.Name)

	profiles, err := c.Profiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	// Sessions need a profile-scoped token.
	_, err = c.CreateSession(ctx)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	token, err = c.SelectProfile(ctx, p.ID)
	require.NoError(t, err)

	sess, err := c.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, sess.ProfileID)
	assert.False(t, sess.Taken(catalog.Auditory))

	sess, err = c.SubmitSection(ctx, sess.ID, catalog.Auditory, api.SectionSubmission{
		Score:   80,
		Details: map[string]any{"risk": "LOW"},
	})
	require.NoError(t, err)
	assert.True(t, sess.AuditoryTaken)
	assert.Equal(t, 80, sess.TotalScore)
	assert.Equal(t, "LOW", sess.Result)

	sess, err = c.SubmitSection(ctx, sess.ID, catalog.Visual, api.SectionSubmission{
		Score:   40,
		Details: map[string]any{"risk": "HIGH"},
	})
	require.NoError(t, err)
	assert.Equal(t, 120, sess.TotalScore)
	assert.Equal(t, "HIGH", sess.Result)

	got, err := c.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.SessionID())
	assert.True(t, got.Taken(catalog.Visual))
	assert.False(t, got.Taken(catalog.Language))

	list, err := c.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.Session(ctx, "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)

	att, err := minigame.NewAttempt(1, minigame.Outcome{Game: minigame.LetterHunt, Correct: 10, Wrong: 2}, time.Now())
	require.NoError(t, err)
	require.NoError(t, c.SubmitMinigame(ctx, minigame.LetterHunt, att))
	assert.Len(t, srv.Attempts(minigame.LetterHunt), 1)

	require.NoError(t, c.DeleteProfile(ctx, p.ID))
	profiles, err = c.Profiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestClientErrorMessage(t *testing.T) {
	ctx := context.Background()
	_, url := newBackend(t)
	var token string
	c := api.New(url, api.WithToken(func() string { return token }))
	token, _ = c.Login(ctx, "parent@example.com", "hunter2")

	_, err := c.CreateProfile(ctx, api.ProfileInput{Name: " ", Age: 7})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "name is required", apiErr.Message)
	assert.False(t, errors.Is(err, api.ErrUnauthorized))
}

func TestClientUnauthorizedHook(t *testing.T) {
	ctx := context.Background()
	srv, url := newBackend(t)

	calls := 0
	var token string
	c := api.New(url,
		api.WithToken(func() string { return token }),
		api.WithOnUnauthorized(func(context.Context) { calls++ }),
	)
	token, err := c.Login(ctx, "parent@example.com", "hunter2")
	require.NoError(t, err)

	srv.Revoke()
	_, err = c.Account(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestLoginRejectionSkipsUnauthorizedHook(t *testing.T) {
	ctx := context.Background()
	_, url := newBackend(t)

	calls := 0
	c := api.New(url,
		api.WithToken(func() string { return "stale-token" }),
		api.WithOnUnauthorized(func(context.Context) { calls++ }),
	)
	_, err := c.Login(ctx, "parent@example.com", "wrong")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 0, calls)

	_, err = c.Account(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	c := api.New(slow.URL, api.WithTimeout(50*time.Millisecond))
	_, err := c.Account(context.Background())
	assert.Error(t, err)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "api: 404 Not Found", (&api.Error{Status: 404}).Error())
	assert.Equal(t, "api: 400 nope", (&api.Error{Status: 400, Message: "nope"}).Error())
}
