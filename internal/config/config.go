// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Env           string
	Addr          string
	Secret        []byte
	SessionTTL    auth.TTL
	SessionCookie string
	QuestionsFile string
	// LeaderboardCacheTTL of zero disables caching.
	LeaderboardCacheTTL time.Duration
	GeminiAPIKey        string
	GeminiModel         string
	GeminiBaseURL       string
}

// Dev reports whether the process runs with development relaxations.
func (c Config) Dev() bool { return c.Env == EnvDevelopment }

// ConfigFromEnv reads config from env vars. Unknown APP_ENV values are treated
// as production.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:                 EnvProduction,
		Addr:                "0.0.0.0:8431",
		Secret:              []byte(getenv("JWT_SECRET")),
		SessionTTL:          auth.DefaultTTL,
		SessionCookie:       "session",
		QuestionsFile:       getenv("QUESTIONS_FILE"),
		LeaderboardCacheTTL: 10 * time.Second,
		GeminiAPIKey:        getenv("GEMINI_API_KEY"),
		GeminiModel:         "gemini-2.5-flash-lite",
		GeminiBaseURL:       getenv("GEMINI_BASE_URL"),
	}
	if v := getenv("APP_ENV"); v == EnvDevelopment {
		cfg.Env = EnvDevelopment
	}
	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("SESSION_COOKIE"); v != "" {
		cfg.SessionCookie = v
	}
	if v := getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := auth.ParseTTL(v)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
		}
		if ttl.Seconds() <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL: %w: must be positive", auth.ErrInvalidTTL)
		}
		cfg.SessionTTL = ttl
	}
	if v := getenv("LEADERBOARD_CACHE_TTL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return Config{}, fmt.Errorf("LEADERBOARD_CACHE_TTL: want seconds >= 0, got %q", v)
		}
		cfg.LeaderboardCacheTTL = time.Duration(secs) * time.Second
	}
	return cfg, nil
}

// Validate checks the signing secret. A missing secret is always fatal; a weak
// one is tolerated only in development, where the returned error is meant to
// be logged as a warning.
func (c Config) Validate() (fatal bool, err error) {
	err = auth.CheckSecret(c.Secret)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, auth.ErrMissingSecret):
		return true, err
	default:
		return !c.Dev(), err
	}
}
