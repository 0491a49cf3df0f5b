// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat and match the koanf tags below.
// - New returns the defaults; Load layers a .env file, an optional YAML
//   file and FOOTSTATS_ environment variables on top.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CORSOrigins is a comma-separated list of allowed browser origins.
	CORSOrigins string `koanf:"cors_origins"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// APIBaseURL is the football-data.org v4 root.
	APIBaseURL string `koanf:"api_base_url"`

	// APIToken authenticates upstream requests. Falls back to
	// FOOTBALL_DATA_TOKEN when unset.
	APIToken string `koanf:"api_token"`

	// APITimeout bounds each upstream request.
	APITimeout time.Duration `koanf:"api_timeout"`

	// RateLimitPerMinute caps upstream requests; 0 disables the limiter.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// CacheDir holds one JSON file per cache key.
	CacheDir string `koanf:"cache_dir"`

	// FavoritesFile is the favorites JSON document.
	FavoritesFile string `koanf:"favorites_file"`

	// Cache TTLs per data kind.
	TTLStandings  time.Duration `koanf:"ttl_standings"`
	TTLTeams      time.Duration `koanf:"ttl_teams"`
	TTLTeamDetail time.Duration `koanf:"ttl_team_detail"`
	TTLMatches    time.Duration `koanf:"ttl_matches"`
	TTLScorers    time.Duration `koanf:"ttl_scorers"`

	// MatchWindowDays and MatchWindowSize shape the team page fixtures.
	MatchWindowDays int `koanf:"match_window_days"`
	MatchWindowSize int `koanf:"match_window_size"`

	// ScorerLimit is the length of the scorer leaderboard.
	ScorerLimit int `koanf:"scorer_limit"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8080",
		CORSOrigins:        "*",
		ShutdownTimeout:    10 * time.Second,
		APIBaseURL:         "https://api.football-data.org/v4",
		APITimeout:         20 * time.Second,
		RateLimitPerMinute: 10,
		CacheDir:           "cache",
		FavoritesFile:      "data/favorites.json",
		TTLStandings:       10 * time.Minute,
		TTLTeams:           time.Hour,
		TTLTeamDetail:      24 * time.Hour,
		TTLMatches:         5 * time.Minute,
		TTLScorers:         time.Hour,
		MatchWindowDays:    120,
		MatchWindowSize:    5,
		ScorerLimit:        20,
	}
}

// Origins splits CORSOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
