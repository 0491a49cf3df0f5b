// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"

	"github.com/okian/footstats/internal/domain/model"
	"github.com/okian/footstats/internal/domain/types"
	"github.com/okian/footstats/internal/gateway"
	"github.com/okian/footstats/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Competitions(ctx context.Context) ([]model.Competition, error)
	Standings(ctx context.Context, code string) (types.StandingsView, error)
	Teams(ctx context.Context, code string) (types.TeamsView, error)
	TopScorers(ctx context.Context, code string) (types.ScorersView, error)
	CompetitionMatches(ctx context.Context, code string, from, to time.Time) (types.MatchesView, error)

	TeamDetail(ctx context.Context, id int) (types.TeamDetailView, error)
	TeamMatches(ctx context.Context, id int, f gateway.MatchFilter) (types.TeamMatchesView, error)

	Favorites(ctx context.Context) (types.FavoritesView, error)
	AddFavorite(ctx context.Context, id int) ([]int, error)
	RemoveFavorite(ctx context.Context, id int) ([]int, error)
	ToggleFavorite(ctx context.Context, id int) (bool, error)

	Search(ctx context.Context, query string) (types.SearchView, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	competitionHandler *CompetitionHandler
	teamHandler        *TeamHandler
	favoritesHandler   *FavoritesHandler
	searchHandler      *SearchHandler
	allowedOrigins     []string
	log                logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAllowedOrigins sets the CORS origins. Defaults to any origin.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		competitionHandler: NewCompetitionHandler(deps),
		teamHandler:        NewTeamHandler(deps),
		favoritesHandler:   NewFavoritesHandler(deps),
		searchHandler:      NewSearchHandler(deps),
		allowedOrigins:     []string{"*"},
		log:                logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	router.Use(RequestIDMiddleware(s.log), MetricsMiddleware)

	router.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.statsHandler.HandleStats).Methods(http.MethodGet)

	router.HandleFunc("/competitions", s.competitionHandler.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/competitions/{code}/standings", s.competitionHandler.HandleStandings).Methods(http.MethodGet)
	router.HandleFunc("/competitions/{code}/teams", s.competitionHandler.HandleTeams).Methods(http.MethodGet)
	router.HandleFunc("/competitions/{code}/scorers", s.competitionHandler.HandleScorers).Methods(http.MethodGet)
	router.HandleFunc("/competitions/{code}/matches", s.competitionHandler.HandleMatches).Methods(http.MethodGet)

	router.HandleFunc("/teams/{id}", s.teamHandler.HandleDetail).Methods(http.MethodGet)
	router.HandleFunc("/teams/{id}/matches", s.teamHandler.HandleMatches).Methods(http.MethodGet)

	router.HandleFunc("/favorites", s.favoritesHandler.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/favorites/{id}", s.favoritesHandler.HandleAdd).Methods(http.MethodPut)
	router.HandleFunc("/favorites/{id}", s.favoritesHandler.HandleRemove).Methods(http.MethodDelete)
	router.HandleFunc("/favorites/{id}/toggle", s.favoritesHandler.HandleToggle).Methods(http.MethodPost)

	router.HandleFunc("/search", s.searchHandler.HandleSearch).Methods(http.MethodGet)
}

// Handler wraps router with the CORS policy.
func (s *Server) Handler(router *mux.Router) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
