// Package types contains the display views returned by the dashboard
// service and rendered by the HTTP API.
package types

import (
	"github.com/okian/footstats/internal/domain/entity"
	"github.com/okian/footstats/internal/domain/model"
)

// StandingsView is a competition table with its season progress.
type StandingsView struct {
	Competition    model.Competition `json:"competition"`
	Teams          []entity.TeamView `json:"teams"`
	MatchesPerTeam int               `json:"matches_per_team"`
	SeasonProgress float64           `json:"season_progress"`
	Skipped        []entity.Skip     `json:"skipped,omitempty"`
}

// TeamsView lists the teams of a competition by name.
type TeamsView struct {
	Competition model.Competition  `json:"competition"`
	Teams       []model.TeamRecord `json:"teams"`
}

// TeamDetailView is the single-team page: info, squad and the matches
// around today.
type TeamDetailView struct {
	Team     entity.TeamView     `json:"team"`
	Coach    string              `json:"coach,omitempty"`
	Favorite bool                `json:"favorite"`
	Squad    []entity.PlayerView `json:"squad"`
	Recent   []entity.MatchView  `json:"recent"`
	Upcoming []entity.MatchView  `json:"upcoming"`
	Skipped  SkippedCounts       `json:"skipped"`
}

// SkippedCounts reports how many rows were dropped while building a view.
type SkippedCounts struct {
	Players int `json:"players"`
	Matches int `json:"matches"`
}

// ScorerView is one ranked scorer.
type ScorerView struct {
	Rank          int     `json:"rank"`
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Nationality   string  `json:"nationality,omitempty"`
	Position      string  `json:"position,omitempty"`
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	TeamCrest     string  `json:"team_crest,omitempty"`
	Goals         int     `json:"goals"`
	Assists       *int    `json:"assists"`
	Penalties     *int    `json:"penalties"`
	Appearances   int     `json:"appearances"`
	GoalsPerMatch float64 `json:"goals_per_match"`
}

// ScorersView is a competition's scorer leaderboard.
type ScorersView struct {
	Competition model.Competition `json:"competition"`
	Scorers     []ScorerView      `json:"scorers"`
}

// MatchesView lists matches with the rows that could not be built.
type MatchesView struct {
	Competition model.Competition  `json:"competition"`
	From        string             `json:"from,omitempty"`
	To          string             `json:"to,omitempty"`
	Matches     []entity.MatchView `json:"matches"`
	Skipped     []entity.Skip      `json:"skipped,omitempty"`
}

// Favorite is a stored favorite resolved to its team.
type Favorite struct {
	TeamID     int    `json:"team_id"`
	Name       string `json:"name"`
	Crest      string `json:"crest,omitempty"`
	League     string `json:"league,omitempty"`
	LeagueCode string `json:"league_code,omitempty"`
}

// Unresolved is a favorite id that could not be looked up.
type Unresolved struct {
	TeamID int    `json:"team_id"`
	Reason string `json:"reason"`
}

// FavoritesView is the favorites page.
type FavoritesView struct {
	Favorites  []Favorite   `json:"favorites"`
	Unresolved []Unresolved `json:"unresolved,omitempty"`
}

// SearchResult is one team matching a search query.
type SearchResult struct {
	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	Crest      string `json:"crest,omitempty"`
	League     string `json:"league"`
	LeagueCode string `json:"league_code"`
}

// SearchView is the outcome of a team search.
type SearchView struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Failed  []string       `json:"failed_competitions,omitempty"`
}

// TeamMatchesView lists a team's matches for a filter.
type TeamMatchesView struct {
	TeamID  int                `json:"team_id"`
	From    string             `json:"from,omitempty"`
	To      string             `json:"to,omitempty"`
	Status  string             `json:"status,omitempty"`
	Matches []entity.MatchView `json:"matches"`
	Skipped []entity.Skip      `json:"skipped,omitempty"`
}
