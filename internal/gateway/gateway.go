// Package gateway serves normalized football records, reading through the
// file cache to the upstream API.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/internal/adapters/repository"
	"github.com/okian/footstats/internal/domain/model"
	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

const dayLayout = "2006-01-02"

// Upstream is the subset of the football-data client the gateway needs.
type Upstream interface {
	Standings(ctx context.Context, code string) (*footballdata.StandingsResponse, error)
	CompetitionTeams(ctx context.Context, code string) (*footballdata.TeamsResponse, error)
	Team(ctx context.Context, id int) (*footballdata.Team, error)
	TeamMatches(ctx context.Context, id int, q footballdata.MatchQuery) (*footballdata.MatchesResponse, error)
	CompetitionMatches(ctx context.Context, code string, q footballdata.MatchQuery) (*footballdata.MatchesResponse, error)
	Scorers(ctx context.Context, code string, limit int) (*footballdata.ScorersResponse, error)
}

// Gateway is the read-through cache in front of the upstream API.
type Gateway struct {
	upstream     Upstream
	cache        repository.Cache
	ttl          TTLPolicy
	competitions []model.Competition
	log          logger.Logger
}

// New returns a gateway over upstream and cache.
func New(upstream Upstream, cache repository.Cache, opts ...Option) *Gateway {
	g := &Gateway{
		upstream:     upstream,
		cache:        cache,
		ttl:          DefaultTTLPolicy(),
		competitions: sortedCompetitions(DefaultCompetitions()),
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MatchFilter narrows a match listing. Zero values mean no filter.
type MatchFilter struct {
	From   time.Time
	To     time.Time
	Status string
	Limit  int
}

func (f MatchFilter) query() footballdata.MatchQuery {
	return footballdata.MatchQuery{
		DateFrom: day(f.From),
		DateTo:   day(f.To),
		Status:   f.Status,
		Limit:    f.Limit,
	}
}

// apply filters records locally by status and date window and caps them at
// Limit.
func (f MatchFilter) apply(records []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(records))
	for _, rec := range records {
		if f.Status != "" && !strings.EqualFold(rec.Status, f.Status) {
			continue
		}
		if !f.From.IsZero() || !f.To.IsZero() {
			d := matchDay(rec.UTCDate)
			if d == "" {
				continue
			}
			if !f.From.IsZero() && d < day(f.From) {
				continue
			}
			if !f.To.IsZero() && d > day(f.To) {
				continue
			}
		}
		out = append(out, rec)
	}
	return limit(out, f.Limit)
}

func limit(records []model.MatchRecord, n int) []model.MatchRecord {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

// Competitions returns the supported competitions ordered by code.
func (g *Gateway) Competitions() []model.Competition {
	out := make([]model.Competition, len(g.competitions))
	copy(out, g.competitions)
	return out
}

// Competition resolves a code case-insensitively.
func (g *Gateway) Competition(code string) (model.Competition, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range g.competitions {
		if c.Code == code {
			return c, nil
		}
	}
	return model.Competition{}, fmt.Errorf("%w: %q", ErrUnknownCompetition, code)
}

// Standings returns the total table of a competition in table order.
func (g *Gateway) Standings(ctx context.Context, code string) ([]model.StandingsRow, error) {
	comp, err := g.Competition(code)
	if err != nil {
		return nil, err
	}
	key := cacheKey("standings", comp.Code)
	return readThrough(ctx, g, key, g.ttl.Standings, func(ctx context.Context) ([]model.StandingsRow, error) {
		resp, err := g.upstream.Standings(ctx, comp.Code)
		if err != nil {
			return nil, err
		}
		return normalizeStandings(comp.Code, resp), nil
	})
}

// Teams returns the teams of a competition in upstream order.
func (g *Gateway) Teams(ctx context.Context, code string) ([]model.TeamRecord, error) {
	comp, err := g.Competition(code)
	if err != nil {
		return nil, err
	}
	key := cacheKey("teams", comp.Code)
	return readThrough(ctx, g, key, g.ttl.Teams, func(ctx context.Context) ([]model.TeamRecord, error) {
		resp, err := g.upstream.CompetitionTeams(ctx, comp.Code)
		if err != nil {
			return nil, err
		}
		return normalizeTeams(comp.Code, resp), nil
	})
}

// Team returns a team with its coach and playing squad.
func (g *Gateway) Team(ctx context.Context, id int) (model.TeamDetail, error) {
	if id <= 0 {
		return model.TeamDetail{}, fmt.Errorf("%w: team id %d", ErrInvalidArgument, id)
	}
	key := cacheKey("team", id)
	return readThrough(ctx, g, key, g.ttl.TeamDetail, func(ctx context.Context) (model.TeamDetail, error) {
		resp, err := g.upstream.Team(ctx, id)
		if err != nil {
			return model.TeamDetail{}, err
		}
		return normalizeTeamDetail(resp), nil
	})
}

// Squad returns the playing squad of a team, coaching staff excluded.
func (g *Gateway) Squad(ctx context.Context, id int) ([]model.PlayerRecord, error) {
	detail, err := g.Team(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Squad, nil
}

// TeamMatches returns the matches of a team. When the upstream rejects the
// filters with a 400, the call is repeated once without them and the result
// is filtered locally.
func (g *Gateway) TeamMatches(ctx context.Context, id int, f MatchFilter) ([]model.MatchRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: team id %d", ErrInvalidArgument, id)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, fmt.Errorf("%w: date window ends before it starts", ErrInvalidArgument)
	}
	key := cacheKey("teammatches", id, day(f.From), day(f.To), f.Status, f.Limit)
	return readThrough(ctx, g, key, g.ttl.Matches, func(ctx context.Context) ([]model.MatchRecord, error) {
		q := f.query()
		resp, err := g.upstream.TeamMatches(ctx, id, q)
		if err == nil {
			return limit(normalizeMatches("", resp), f.Limit), nil
		}
		if !q.HasFilters() || footballdata.StatusOf(err) != http.StatusBadRequest {
			return nil, err
		}

		g.log.Warn(ctx, "upstream rejected match filters, retrying without them",
			logger.Int("team_id", id), logger.Error(err))
		metrics.RecordUpstreamFallback()
		resp, err = g.upstream.TeamMatches(ctx, id, q.WithoutFilters())
		if err != nil {
			return nil, err
		}
		return f.apply(normalizeMatches("", resp)), nil
	})
}

// CompetitionMatches returns the matches of a competition between from and
// to, inclusive. Zero bounds are not sent.
func (g *Gateway) CompetitionMatches(ctx context.Context, code string, from, to time.Time) ([]model.MatchRecord, error) {
	comp, err := g.Competition(code)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("%w: date window ends before it starts", ErrInvalidArgument)
	}
	key := cacheKey("matches", comp.Code, day(from), day(to))
	return readThrough(ctx, g, key, g.ttl.Matches, func(ctx context.Context) ([]model.MatchRecord, error) {
		resp, err := g.upstream.CompetitionMatches(ctx, comp.Code, footballdata.MatchQuery{
			DateFrom: day(from),
			DateTo:   day(to),
		})
		if err != nil {
			return nil, err
		}
		return normalizeMatches(comp.Code, resp), nil
	})
}

// TopScorers returns the scorers of a competition in upstream order.
func (g *Gateway) TopScorers(ctx context.Context, code string, n int) ([]model.ScorerRow, error) {
	comp, err := g.Competition(code)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: scorer limit %d", ErrInvalidArgument, n)
	}
	key := cacheKey("scorers", comp.Code, n)
	return readThrough(ctx, g, key, g.ttl.Scorers, func(ctx context.Context) ([]model.ScorerRow, error) {
		resp, err := g.upstream.Scorers(ctx, comp.Code, n)
		if err != nil {
			return nil, err
		}
		return normalizeScorers(comp.Code, resp), nil
	})
}

// readThrough serves key from the cache or fetches, stores and returns it.
// Failed fetches are never cached.
func readThrough[T any](ctx context.Context, g *Gateway, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := repository.GetAs[T](ctx, g.cache, key, ttl); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	g.cache.Set(ctx, key, v)
	return v, nil
}

func cacheKey(bucket string, parts ...any) string {
	var b strings.Builder
	b.WriteString(bucket)
	for _, p := range parts {
		b.WriteByte('_')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

func sortedCompetitions(comps map[string]string) []model.Competition {
	out := make([]model.Competition, 0, len(comps))
	for code, name := range comps {
		out = append(out, model.Competition{Code: strings.ToUpper(code), Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dayLayout)
}

// matchDay returns the UTC calendar day of an upstream timestamp.
func matchDay(utc string) string {
	t, err := time.Parse(time.RFC3339, utc)
	if err != nil {
		return ""
	}
	return t.UTC().Format(dayLayout)
}
