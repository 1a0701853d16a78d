// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "http://localhost:8088"
	DefaultAPITimeout = 15 * time.Second
	DefaultDevAddr    = ":8088"
	DefaultDevSecret  = "dyscreen-dev-secret"
)

// Config holds every runtime setting.
type Config struct {
	DBPath   string // empty means the XDG default
	DBDriver string

	APIURL     string
	APITimeout time.Duration

	QuestionBank string // empty means the embedded bank

	LogFile  string
	LogLevel string
	LogJSON  bool

	DevAddr   string
	DevSecret string
	DevUsers  []string // email:password pairs seeded into the dev backend
}

// Load reads .env from the working directory when present, then the
// environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the DYSCREEN_* variables, falling back to defaults for unset
// or malformed values.
func FromEnv() Config {
	return Config{
		DBPath:       os.Getenv("DYSCREEN_DB"),
		DBDriver:     envOr("DYSCREEN_DB_DRIVER", "sqlite"),
		APIURL:       strings.TrimSuffix(envOr("DYSCREEN_API_URL", DefaultAPIURL), "/"),
		APITimeout:   envDuration("DYSCREEN_API_TIMEOUT", DefaultAPITimeout),
		QuestionBank: os.Getenv("DYSCREEN_QUESTION_BANK"),
		LogFile:      envOr("DYSCREEN_LOG_FILE", defaultLogFile()),
		LogLevel:     envOr("DYSCREEN_LOG_LEVEL", "info"),
		LogJSON:      envBool("DYSCREEN_LOG_JSON", false),
		DevAddr:      envOr("DYSCREEN_DEV_ADDR", DefaultDevAddr),
		DevSecret:    envOr("DYSCREEN_DEV_SECRET", DefaultDevSecret),
		DevUsers:     csvOr("DYSCREEN_DEV_USERS", "parent@example.com:dyscreen"),
	}
}

func defaultLogFile() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "dyscreen.log")
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "dyscreen", "dyscreen.log")
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	raw := envOr(k, def)
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
