package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "FOOTSTATS_"
	envConfig    = "FOOTSTATS_CONFIG"
	envDotEnv    = "FOOTSTATS_ENV_FILE"
	envTokenAlt  = "FOOTBALL_DATA_TOKEN"
	defaultEnvFn = ".env"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FOOTSTATS_CONFIG is set
//  3. env (prefix FOOTSTATS_), after a .env file has been read into the
//     process environment without overriding variables already set
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like FOOTSTATS_CACHE_DIR -> cache_dir (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv(envTokenAlt)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv reads FOOTSTATS_ENV_FILE (default .env) if it exists.
func loadDotEnv() error {
	path := os.Getenv(envDotEnv)
	if path == "" {
		path = defaultEnvFn
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.APIBaseURL) == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CacheDir) == "":
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.FavoritesFile) == "":
		return fmt.Errorf("%w: favorites_file must not be empty", ErrInvalidConfig)
	case c.APITimeout <= 0:
		return fmt.Errorf("%w: api_timeout must be positive", ErrInvalidConfig)
	case c.RateLimitPerMinute < 0:
		return fmt.Errorf("%w: rate_limit_per_minute must not be negative", ErrInvalidConfig)
	case c.MatchWindowDays <= 0 || c.MatchWindowSize <= 0:
		return fmt.Errorf("%w: match window must be positive", ErrInvalidConfig)
	case c.ScorerLimit <= 0:
		return fmt.Errorf("%w: scorer_limit must be positive", ErrInvalidConfig)
	}

	for _, ttl := range []struct {
		name string
		d    time.Duration
	}{
		{"ttl_standings", c.TTLStandings},
		{"ttl_teams", c.TTLTeams},
		{"ttl_team_detail", c.TTLTeamDetail},
		{"ttl_matches", c.TTLMatches},
		{"ttl_scorers", c.TTLScorers},
	} {
		if ttl.d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, ttl.name)
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
