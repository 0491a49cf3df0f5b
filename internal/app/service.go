// Package service provides the dashboard service that composes the gateway,
// the derived entities and the favorites store into the views served by the
// HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/internal/adapters/repository"
	"github.com/okian/footstats/internal/domain/entity"
	"github.com/okian/footstats/internal/domain/model"
	"github.com/okian/footstats/internal/domain/scoring"
	"github.com/okian/footstats/internal/domain/types"
	"github.com/okian/footstats/internal/gateway"
	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

// Default view configuration.
const (
	defaultWindowDays    = 120
	defaultWindowSize    = 5
	defaultSearchMinLen  = 2
	teamDetailMatchLimit = 60
	dayLayout            = "2006-01-02"
)

// Gateway is the data source of the service.
type Gateway interface {
	Competitions() []model.Competition
	Competition(code string) (model.Competition, error)
	Standings(ctx context.Context, code string) ([]model.StandingsRow, error)
	Teams(ctx context.Context, code string) ([]model.TeamRecord, error)
	Team(ctx context.Context, id int) (model.TeamDetail, error)
	TeamMatches(ctx context.Context, id int, f gateway.MatchFilter) ([]model.MatchRecord, error)
	CompetitionMatches(ctx context.Context, code string, from, to time.Time) ([]model.MatchRecord, error)
	TopScorers(ctx context.Context, code string, n int) ([]model.ScorerRow, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	gateway   Gateway
	favorites repository.FavoritesStore

	// View configuration
	windowDays   int
	windowSize   int
	scorerLimit  int
	searchMinLen int

	// State
	started   bool
	startedAt time.Time
	now       func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGateway sets the data gateway.
func WithGateway(g Gateway) Option {
	return func(s *Service) {
		s.gateway = g
	}
}

// WithFavoritesStore sets the favorites store.
func WithFavoritesStore(f repository.FavoritesStore) Option {
	return func(s *Service) {
		s.favorites = f
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used for ages and match windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMatchWindow sets the team match window: matches within days of today
// are fetched and size recent plus size upcoming are shown.
func WithMatchWindow(days, size int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
		if size > 0 {
			s.windowSize = size
		}
	}
}

// WithScorerLimit sets the length of the scorer leaderboard.
func WithScorerLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scorerLimit = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		windowDays:   defaultWindowDays,
		windowSize:   defaultWindowSize,
		scorerLimit:  scoring.DefaultScorerLimit,
		searchMinLen: defaultSearchMinLen,
		now:          time.Now,
		logger:       nil, // replaced on Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start checks the collaborators and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.gateway == nil {
		return fmt.Errorf("%w: gateway", ErrMissingDependency)
	}
	if s.favorites == nil {
		return fmt.Errorf("%w: favorites store", ErrMissingDependency)
	}

	ids, err := s.favorites.Load(ctx)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("competitions", len(s.gateway.Competitions())),
		logger.Int("favorites", len(ids)),
		logger.Int("windowDays", s.windowDays),
	)
	return nil
}

// Stop marks the service stopped. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Competitions lists the supported competitions.
func (s *Service) Competitions(_ context.Context) ([]model.Competition, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.gateway.Competitions(), nil
}

// Standings returns the competition table with season progress.
func (s *Service) Standings(ctx context.Context, code string) (types.StandingsView, error) {
	if err := s.ready(); err != nil {
		return types.StandingsView{}, err
	}
	comp, err := s.gateway.Competition(code)
	if err != nil {
		return types.StandingsView{}, err
	}
	rows, err := s.gateway.Standings(ctx, comp.Code)
	if err != nil {
		return types.StandingsView{}, err
	}

	batch := entity.TeamsFromStandings(rows)
	s.recordBatch(ctx, "team", len(batch.Items), batch.Skipped)

	view := types.StandingsView{
		Competition:    comp,
		Teams:          make([]entity.TeamView, 0, len(batch.Items)),
		MatchesPerTeam: scoring.MatchesPerTeam(len(rows)),
		SeasonProgress: scoring.SeasonProgress(rows),
		Skipped:        batch.Skipped,
	}
	for _, t := range batch.Items {
		view.Teams = append(view.Teams, t.View())
	}
	return view, nil
}

// Teams returns the teams of a competition sorted by name.
func (s *Service) Teams(ctx context.Context, code string) (types.TeamsView, error) {
	if err := s.ready(); err != nil {
		return types.TeamsView{}, err
	}
	comp, err := s.gateway.Competition(code)
	if err != nil {
		return types.TeamsView{}, err
	}
	teams, err := s.gateway.Teams(ctx, comp.Code)
	if err != nil {
		return types.TeamsView{}, err
	}
	sorted := make([]model.TeamRecord, 0, len(teams))
	for _, t := range teams {
		if t.TeamID != 0 && t.Name != "" {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return types.TeamsView{Competition: comp, Teams: sorted}, nil
}

// TeamDetail returns a team with its squad, favorite flag and the matches
// around today.
func (s *Service) TeamDetail(ctx context.Context, id int) (types.TeamDetailView, error) {
	if err := s.ready(); err != nil {
		return types.TeamDetailView{}, err
	}
	detail, err := s.gateway.Team(ctx, id)
	if err != nil {
		return types.TeamDetailView{}, err
	}
	team, err := entity.TeamFromRecord(detail.Team)
	if err != nil {
		return types.TeamDetailView{}, err
	}

	now := s.now().UTC()
	window := time.Duration(s.windowDays) * 24 * time.Hour
	records, err := s.gateway.TeamMatches(ctx, id, gateway.MatchFilter{
		From:  now.Add(-window),
		To:    now.Add(window),
		Limit: teamDetailMatchLimit,
	})
	if err != nil {
		return types.TeamDetailView{}, err
	}

	players := entity.Players(detail.Squad)
	s.recordBatch(ctx, "player", len(players.Items), players.Skipped)
	entity.SortSquad(players.Items)

	matches := entity.Matches(records)
	s.recordBatch(ctx, "match", len(matches.Items), matches.Skipped)
	shown := entity.WindowMatches(matches.Items, now, s.windowSize)

	favorite, err := s.IsFavorite(ctx, id)
	if err != nil {
		return types.TeamDetailView{}, err
	}

	view := types.TeamDetailView{
		Coach:    detail.Coach,
		Favorite: favorite,
		Squad:    make([]entity.PlayerView, 0, len(players.Items)),
		Recent:   []entity.MatchView{},
		Upcoming: []entity.MatchView{},
		Skipped: types.SkippedCounts{
			Players: len(players.Skipped),
			Matches: len(matches.Skipped),
		},
	}
	for _, p := range players.Items {
		view.Squad = append(view.Squad, p.View(now))
	}
	for _, m := range shown {
		team.AddMatch(m)
		if m.Kickoff.After(now) {
			view.Upcoming = append(view.Upcoming, m.View())
		} else {
			view.Recent = append(view.Recent, m.View())
		}
	}
	view.Team = team.View()
	return view, nil
}

// TopScorers returns the ranked scorer leaderboard of a competition.
func (s *Service) TopScorers(ctx context.Context, code string) (types.ScorersView, error) {
	if err := s.ready(); err != nil {
		return types.ScorersView{}, err
	}
	comp, err := s.gateway.Competition(code)
	if err != nil {
		return types.ScorersView{}, err
	}
	rows, err := s.gateway.TopScorers(ctx, comp.Code, s.scorerLimit)
	if err != nil {
		return types.ScorersView{}, err
	}

	ranked := scoring.RankScorers(rows, s.scorerLimit)
	view := types.ScorersView{Competition: comp, Scorers: make([]types.ScorerView, 0, len(ranked))}
	for _, r := range ranked {
		view.Scorers = append(view.Scorers, types.ScorerView{
			Rank:          r.Rank,
			PlayerID:      r.Row.PlayerID,
			PlayerName:    r.Row.PlayerName,
			Nationality:   r.Row.Nationality,
			Position:      r.Row.Position,
			TeamID:        r.Row.Team.TeamID,
			TeamName:      r.Row.Team.Name,
			TeamCrest:     r.Row.Team.Crest,
			Goals:         r.Row.Goals,
			Assists:       r.Row.Assists,
			Penalties:     r.Row.Penalties,
			Appearances:   r.Row.Appearances,
			GoalsPerMatch: r.GoalsPerMatch,
		})
	}
	return view, nil
}

// CompetitionMatches returns the matches of a competition between from and
// to in kickoff order.
func (s *Service) CompetitionMatches(ctx context.Context, code string, from, to time.Time) (types.MatchesView, error) {
	if err := s.ready(); err != nil {
		return types.MatchesView{}, err
	}
	comp, err := s.gateway.Competition(code)
	if err != nil {
		return types.MatchesView{}, err
	}
	records, err := s.gateway.CompetitionMatches(ctx, comp.Code, from, to)
	if err != nil {
		return types.MatchesView{}, err
	}

	matches, skipped := s.matchViews(ctx, records)
	return types.MatchesView{
		Competition: comp,
		From:        formatDay(from),
		To:          formatDay(to),
		Matches:     matches,
		Skipped:     skipped,
	}, nil
}

// TeamMatches returns a team's matches for f in kickoff order.
func (s *Service) TeamMatches(ctx context.Context, id int, f gateway.MatchFilter) (types.TeamMatchesView, error) {
	if err := s.ready(); err != nil {
		return types.TeamMatchesView{}, err
	}
	records, err := s.gateway.TeamMatches(ctx, id, f)
	if err != nil {
		return types.TeamMatchesView{}, err
	}

	matches, skipped := s.matchViews(ctx, records)
	return types.TeamMatchesView{
		TeamID:  id,
		From:    formatDay(f.From),
		To:      formatDay(f.To),
		Status:  f.Status,
		Matches: matches,
		Skipped: skipped,
	}, nil
}

func (s *Service) matchViews(ctx context.Context, records []model.MatchRecord) ([]entity.MatchView, []entity.Skip) {
	batch := entity.Matches(records)
	s.recordBatch(ctx, "match", len(batch.Items), batch.Skipped)
	sort.SliceStable(batch.Items, func(i, j int) bool {
		return batch.Items[i].Kickoff.Before(batch.Items[j].Kickoff)
	})

	views := make([]entity.MatchView, 0, len(batch.Items))
	for _, m := range batch.Items {
		views = append(views, m.View())
	}
	return views, batch.Skipped
}

// Search finds teams whose name contains query, case-insensitively, across
// every supported competition. Queries shorter than two characters match
// nothing. A competition whose team list cannot be fetched is skipped and
// reported; a configuration error aborts the search.
func (s *Service) Search(ctx context.Context, query string) (types.SearchView, error) {
	if err := s.ready(); err != nil {
		return types.SearchView{}, err
	}
	query = strings.TrimSpace(query)
	view := types.SearchView{Query: query, Results: []types.SearchResult{}}
	if len([]rune(query)) < s.searchMinLen {
		return view, nil
	}
	needle := strings.ToLower(query)

	for _, comp := range s.gateway.Competitions() {
		teams, err := s.gateway.Teams(ctx, comp.Code)
		if err != nil {
			if errors.Is(err, footballdata.ErrConfiguration) {
				return types.SearchView{}, err
			}
			s.logger.Warn(ctx, "search skipped competition",
				logger.String("competition", comp.Code), logger.Error(err))
			view.Failed = append(view.Failed, comp.Code)
			continue
		}
		for _, t := range teams {
			if t.Name == "" || !strings.Contains(strings.ToLower(t.Name), needle) {
				continue
			}
			view.Results = append(view.Results, types.SearchResult{
				TeamID:     t.TeamID,
				TeamName:   t.Name,
				Crest:      t.Crest,
				League:     comp.Name,
				LeagueCode: comp.Code,
			})
		}
	}
	return view, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"windowDays":   s.windowDays,
		"windowSize":   s.windowSize,
		"scorerLimit":  s.scorerLimit,
		"searchMinLen": s.searchMinLen,
	}

	if s.started {
		ctx := context.Background()
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
		stats["competitions"] = len(s.gateway.Competitions())
		if ids, err := s.favorites.Load(ctx); err == nil {
			stats["favorites"] = len(ids)
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		goroutines := runtime.NumGoroutine()
		stats["goroutines"] = goroutines
		stats["heapAllocBytes"] = mem.HeapAlloc
		metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
		metrics.UpdateSystemGoroutineCount(goroutines)
	}

	return stats
}

func (s *Service) recordBatch(ctx context.Context, kind string, built int, skipped []entity.Skip) {
	metrics.RecordEntitiesBuilt(kind, built)
	if len(skipped) == 0 {
		return
	}
	metrics.RecordEntitiesSkipped(kind, len(skipped))
	for _, sk := range skipped {
		s.logger.Warn(ctx, "skipped malformed record",
			logger.String("kind", kind),
			logger.Int("index", sk.Index),
			logger.Int("id", sk.ID),
			logger.String("reason", sk.Reason))
	}
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dayLayout)
}
