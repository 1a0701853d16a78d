package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/abhisek/dyscreen/internal/logging"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	opts.Secret = "s"
	opts.BcryptCost = bcrypt.MinCost
	opts.Logger = logging.Discard()
	if opts.Users == nil {
		opts.Users = []string{"a@b.c:pw"}
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// profileToken logs in, creates a profile and selects it.
func profileToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/auth/login", "", map[string]string{"email": "A@B.C", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	acc := decode[map[string]string](t, rec)["access_token"]

	rec = call(t, h, http.MethodPost, "/profiles", acc, map[string]any{"name": "Kid", "age": 6})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPost, "/profiles/"+id+"/select", acc, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[map[string]string](t, rec)["profile_token"]
}

func TestNewRejectsBadUsers(t *testing.T) {
	_, err := New(Options{Secret: "s", Users: []string{"nocolon"}})
	assert.Error(t, err)
	_, err = New(Options{})
	assert.Error(t, err)
}

func TestMissingBearer(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	rec := call(t, h, http.MethodGet, "/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = call(t, h, http.MethodGet, "/account", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitLimiter(t *testing.T) {
	h := newTestServer(t, Options{SubmitRate: rate.Every(1 << 62), SubmitBurst: 2}).Handler()
	tok := profileToken(t, h)

	rec := call(t, h, http.MethodPost, "/sessions", tok, struct{}{})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	path := "/sessions/" + id + "/sections/auditory"
	for i := 0; i < 2; i++ {
		rec = call(t, h, http.MethodPost, path, tok, map[string]any{"score": 50})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec = call(t, h, http.MethodPost, path, tok, map[string]any{"score": 50})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSubmitValidation(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	tok := profileToken(t, h)
	rec := call(t, h, http.MethodPost, "/sessions", tok, struct{}{})
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = call(t, h, http.MethodPost, "/sessions/"+id+"/sections/maths", tok, map[string]any{"score": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = call(t, h, http.MethodPost, "/sessions/"+id+"/sections/visual", tok, map[string]any{"score": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = call(t, h, http.MethodPost, "/sessions/"+id+"/sections/visual", tok,
		map[string]any{"score": 10, "details": map[string]any{"risk": "EXTREME"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = call(t, h, http.MethodPost, "/minigames/snake/attempts", tok, map[string]any{"score": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorstRisk(t *testing.T) {
	assert.Equal(t, "LOW", worstRisk("", "LOW"))
	assert.Equal(t, "MEDIUM", worstRisk("LOW", "MEDIUM"))
	assert.Equal(t, "HIGH", worstRisk("HIGH", "LOW"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
