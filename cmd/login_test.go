package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/dyscreen/internal/auth"
	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/devapi"
	"github.com/abhisek/dyscreen/internal/logging"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/store"
)

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); rootCmd.SetErr(nil) })
	return rootCmd.Execute()
}

// localState reopens the database the commands wrote to.
func localState(t *testing.T, dbPath string) (*progress.Tracker, auth.Credentials) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(store.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer st.Close()
	tr, err := progress.New(ctx, st.KV())
	require.NoError(t, err)
	creds, err := auth.NewStore(ctx, st.KV())
	require.NoError(t, err)
	return tr, creds.Current()
}

func TestFailedLoginKeepsExistingLogin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DYSCREEN_LOG_FILE", filepath.Join(dir, "dyscreen.log"))
	t.Setenv("DYSCREEN_DB_DRIVER", store.DriverSQLite)
	dbPath := filepath.Join(dir, "dyscreen.db")

	srv, err := devapi.New(devapi.Options{
		Secret:     "test-secret",
		Users:      []string{"parent@example.com:hunter2"},
		BcryptCost: bcrypt.MinCost,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	login := func(password string) error {
		return runRoot(t, "--db", dbPath, "--api", ts.URL,
			"login", "--email", "parent@example.com", "--password", password)
	}
	require.NoError(t, login("hunter2"))

	func() {
		st, err := store.Open(store.DriverSQLite, dbPath)
		require.NoError(t, err)
		defer st.Close()
		tr, err := progress.New(context.Background(), st.KV())
		require.NoError(t, err)
		require.NoError(t, tr.MarkComplete(context.Background(), catalog.Auditory, progress.Completion{Score: 80, DifficultyRating: 2}))
	}()

	err = login("hunter3")
	require.Error(t, err)

	tr, creds := localState(t, dbPath)
	assert.True(t, tr.IsComplete(catalog.Auditory), "progress survives a mistyped password")
	assert.True(t, creds.LoggedIn(), "credentials survive a mistyped password")
}
