package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"DYSCREEN_DB", "DYSCREEN_DB_DRIVER", "DYSCREEN_API_URL", "DYSCREEN_API_TIMEOUT",
		"DYSCREEN_QUESTION_BANK", "DYSCREEN_LOG_FILE", "DYSCREEN_LOG_LEVEL", "DYSCREEN_LOG_JSON",
		"DYSCREEN_DEV_ADDR", "DYSCREEN_DEV_SECRET", "DYSCREEN_DEV_USERS",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_STATE_HOME", "/state")

	c := FromEnv()
	assert.Equal(t, "", c.DBPath)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, DefaultAPIURL, c.APIURL)
	assert.Equal(t, DefaultAPITimeout, c.APITimeout)
	assert.Equal(t, filepath.Join("/state", "dyscreen", "dyscreen.log"), c.LogFile)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.LogJSON)
	assert.Equal(t, DefaultDevAddr, c.DevAddr)
	assert.Equal(t, []string{"parent@example.com:dyscreen"}, c.DevUsers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DYSCREEN_API_URL", "https://api.example.org/")
	t.Setenv("DYSCREEN_API_TIMEOUT", "3s")
	t.Setenv("DYSCREEN_DB_DRIVER", "postgres")
	t.Setenv("DYSCREEN_LOG_JSON", "true")
	t.Setenv("DYSCREEN_DEV_USERS", "a@b.c:pw, d@e.f:pw2 ,")

	c := FromEnv()
	assert.Equal(t, "https://api.example.org", c.APIURL)
	assert.Equal(t, 3*time.Second, c.APITimeout)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.True(t, c.LogJSON)
	assert.Equal(t, []string{"a@b.c:pw", "d@e.f:pw2"}, c.DevUsers)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DYSCREEN_API_TIMEOUT", "soon")
	t.Setenv("DYSCREEN_LOG_JSON", "maybe")

	c := FromEnv()
	assert.Equal(t, DefaultAPITimeout, c.APITimeout)
	assert.False(t, c.LogJSON)
}
