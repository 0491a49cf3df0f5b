// Package footballdata is a thin client for the football-data.org v4 REST
// API. It returns the raw payloads; normalization happens in the gateway.
package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

const (
	DefaultBaseURL       = "https://api.football-data.org/v4"
	DefaultTimeout       = 20 * time.Second
	DefaultRatePerMinute = 10

	authHeader       = "X-Auth-Token"
	maxResponseBytes = 8 << 20
)

// Endpoint labels used for metrics and errors.
const (
	EndpointStandings          = "standings"
	EndpointCompetitionTeams   = "competition_teams"
	EndpointTeam               = "team"
	EndpointTeamMatches        = "team_matches"
	EndpointCompetitionMatches = "competition_matches"
	EndpointScorers            = "scorers"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Client issues authenticated GET requests against the upstream API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	timeout    time.Duration
	limiter    *rate.Limiter
	log        logger.Logger
}

// NewClient returns a client with the default base URL, timeout and rate
// limit. A missing token is not an error here; requests fail with
// ErrConfiguration instead.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: newLimiter(DefaultRatePerMinute),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// newLimiter allows perMinute requests per minute with bursts of the same
// size. perMinute <= 0 disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// HasToken reports whether an API token is configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// MatchQuery narrows a match listing. Dates are YYYY-MM-DD. Zero values are
// not sent.
type MatchQuery struct {
	DateFrom string
	DateTo   string
	Status   string
	Limit    int
}

// HasFilters reports whether the query carries a date or status filter.
func (q MatchQuery) HasFilters() bool {
	return q.DateFrom != "" || q.DateTo != "" || q.Status != ""
}

// WithoutFilters drops every filter, including the limit.
func (q MatchQuery) WithoutFilters() MatchQuery {
	return MatchQuery{}
}

func (q MatchQuery) values() url.Values {
	v := url.Values{}
	if q.DateFrom != "" {
		v.Set("dateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("dateTo", q.DateTo)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Standings fetches the tables of a competition.
func (c *Client) Standings(ctx context.Context, code string) (*StandingsResponse, error) {
	var out StandingsResponse
	path := "/competitions/" + url.PathEscape(code) + "/standings"
	if err := c.get(ctx, EndpointStandings, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompetitionTeams fetches the teams of a competition.
func (c *Client) CompetitionTeams(ctx context.Context, code string) (*TeamsResponse, error) {
	var out TeamsResponse
	path := "/competitions/" + url.PathEscape(code) + "/teams"
	if err := c.get(ctx, EndpointCompetitionTeams, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Team fetches one team with its coach and squad.
func (c *Client) Team(ctx context.Context, id int) (*Team, error) {
	var out Team
	path := "/teams/" + strconv.Itoa(id)
	if err := c.get(ctx, EndpointTeam, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamMatches fetches the matches of a team.
func (c *Client) TeamMatches(ctx context.Context, id int, q MatchQuery) (*MatchesResponse, error) {
	var out MatchesResponse
	path := "/teams/" + strconv.Itoa(id) + "/matches"
	if err := c.get(ctx, EndpointTeamMatches, path, q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompetitionMatches fetches the matches of a competition.
func (c *Client) CompetitionMatches(ctx context.Context, code string, q MatchQuery) (*MatchesResponse, error) {
	var out MatchesResponse
	path := "/competitions/" + url.PathEscape(code) + "/matches"
	if err := c.get(ctx, EndpointCompetitionMatches, path, q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scorers fetches the top scorers of a competition.
func (c *Client) Scorers(ctx context.Context, code string, limit int) (*ScorersResponse, error) {
	var out ScorersResponse
	path := "/competitions/" + url.PathEscape(code) + "/scorers"
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if err := c.get(ctx, EndpointScorers, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, target any) error {
	if c.token == "" {
		return fmt.Errorf("%w: missing API token (set FOOTBALL_DATA_TOKEN)", ErrConfiguration)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for rate limit: %w", ErrDataSource, err)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrDataSource, err)
	}
	req.Header.Set(authHeader, c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", elapsed)
		c.log.Warn(ctx, "upstream request failed", logger.String("endpoint", endpoint), logger.Error(err))
		return newDataSourceError(endpoint, 0, []byte(err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), elapsed)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newDataSourceError(endpoint, resp.StatusCode, []byte(err.Error()))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.log.Warn(ctx, "upstream returned error status",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode),
			logger.String("body", strings.TrimSpace(string(truncate(raw)))))
		return newDataSourceError(endpoint, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s payload: %w", ErrDataSource, endpoint, err)
	}
	c.log.Debug(ctx, "upstream request served",
		logger.String("endpoint", endpoint),
		logger.Float64("latency_ms", elapsed))
	return nil
}

func truncate(b []byte) []byte {
	if len(b) > maxBodyExcerpt {
		return b[:maxBodyExcerpt]
	}
	return b
}
