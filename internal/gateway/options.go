package gateway

import (
	"time"

	"github.com/okian/footstats/pkg/logger"
)

// TTLPolicy holds the freshness window of each cached resource.
type TTLPolicy struct {
	Standings  time.Duration
	Teams      time.Duration
	TeamDetail time.Duration
	Matches    time.Duration
	Scorers    time.Duration
}

// DefaultTTLPolicy returns the stock freshness windows.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Standings:  10 * time.Minute,
		Teams:      time.Hour,
		TeamDetail: 24 * time.Hour,
		Matches:    5 * time.Minute,
		Scorers:    time.Hour,
	}
}

// withDefaults fills zero windows from the stock policy.
func (p TTLPolicy) withDefaults() TTLPolicy {
	d := DefaultTTLPolicy()
	if p.Standings <= 0 {
		p.Standings = d.Standings
	}
	if p.Teams <= 0 {
		p.Teams = d.Teams
	}
	if p.TeamDetail <= 0 {
		p.TeamDetail = d.TeamDetail
	}
	if p.Matches <= 0 {
		p.Matches = d.Matches
	}
	if p.Scorers <= 0 {
		p.Scorers = d.Scorers
	}
	return p
}

// DefaultCompetitions maps the supported competition codes to display names.
func DefaultCompetitions() map[string]string {
	return map[string]string{
		"PD": "La Liga",
		"PL": "Premier League",
		"SA": "Serie A",
	}
}

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithTTLPolicy sets the cache freshness windows.
func WithTTLPolicy(p TTLPolicy) Option {
	return func(g *Gateway) {
		g.ttl = p.withDefaults()
	}
}

// WithCompetitions replaces the supported competitions (code to name).
func WithCompetitions(comps map[string]string) Option {
	return func(g *Gateway) {
		if len(comps) > 0 {
			g.competitions = sortedCompetitions(comps)
		}
	}
}

// WithLogger sets the gateway logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}
