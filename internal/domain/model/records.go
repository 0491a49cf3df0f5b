// Package model contains the normalized records produced by the gateway and
// passed between layers. Records are flat, JSON-serializable and immutable
// once built; optional upstream values are pointers.
package model

// Competition identifies a supported league.
type Competition struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StandingsRow is one team's ranked record within a competition table.
// GoalDifference == GoalsFor - GoalsAgainst and Played == Won + Draw + Lost.
type StandingsRow struct {
	CompetitionCode string `json:"competition_code"`
	Position        int    `json:"position"`
	TeamID          int    `json:"team_id"`
	TeamName        string `json:"team_name"`
	ShortName       string `json:"short_name"`
	TLA             string `json:"tla"`
	Crest           string `json:"crest"`
	Played          int    `json:"played"`
	Won             int    `json:"won"`
	Draw            int    `json:"draw"`
	Lost            int    `json:"lost"`
	Points          int    `json:"points"`
	GoalsFor        int    `json:"goals_for"`
	GoalsAgainst    int    `json:"goals_against"`
	GoalDifference  int    `json:"goal_difference"`
	Form            string `json:"form"`
}

// TeamRecord describes a club.
type TeamRecord struct {
	TeamID       int      `json:"team_id"`
	Name         string   `json:"name"`
	ShortName    string   `json:"short_name"`
	TLA          string   `json:"tla"`
	Crest        string   `json:"crest"`
	Venue        string   `json:"venue"`
	Founded      *int     `json:"founded,omitempty"`
	Website      *string  `json:"website,omitempty"`
	Competitions []string `json:"competitions,omitempty"`
}

// PlayerRecord is one squad member.
type PlayerRecord struct {
	PlayerID    int     `json:"player_id"`
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	Nationality string  `json:"nationality"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	ShirtNumber *int    `json:"shirt_number,omitempty"`
}

// TeamDetail is a team plus its registered squad.
type TeamDetail struct {
	Team  TeamRecord     `json:"team"`
	Coach string         `json:"coach,omitempty"`
	Squad []PlayerRecord `json:"squad"`
}

// TeamRef is the slim team shape embedded in matches and scorer rows.
type TeamRef struct {
	TeamID    int    `json:"team_id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

// ScoreLine holds one side-by-side goal count. Values are nil for unplayed
// matches.
type ScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score wraps the score lines reported for a match. FullTime must be present
// for a match to be constructible.
type Score struct {
	Winner   string     `json:"winner,omitempty"`
	FullTime *ScoreLine `json:"full_time"`
	HalfTime *ScoreLine `json:"half_time,omitempty"`
}

// Match statuses the dashboard relies on. Other upstream values pass through.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusFinished  = "FINISHED"
)

// MatchRecord is one fixture. UTCDate is kept raw; it is parsed when the
// record is turned into an entity or windowed.
type MatchRecord struct {
	MatchID         int     `json:"match_id"`
	UTCDate         string  `json:"utc_date"`
	Status          string  `json:"status"`
	Matchday        *int    `json:"matchday,omitempty"`
	CompetitionCode string  `json:"competition_code"`
	HomeTeam        TeamRef `json:"home_team"`
	AwayTeam        TeamRef `json:"away_team"`
	Score           *Score  `json:"score,omitempty"`
}

// ScorerRow is one entry of a competition's top-scorer list.
type ScorerRow struct {
	CompetitionCode string  `json:"competition_code"`
	PlayerID        int     `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Nationality     string  `json:"nationality"`
	Position        string  `json:"position"`
	Team            TeamRef `json:"team"`
	Goals           int     `json:"goals"`
	Assists         *int    `json:"assists,omitempty"`
	Penalties       *int    `json:"penalties,omitempty"`
	Appearances     int     `json:"appearances"`
}
