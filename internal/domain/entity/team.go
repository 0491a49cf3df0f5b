package entity

import (
	"fmt"
	"math"

	"github.com/okian/footstats/internal/domain/model"
)

const minFoundedYear = 1800

// TeamParams carries the inputs of NewTeam. Table figures are zero for teams
// built outside a standings context.
type TeamParams struct {
	ID        int
	Name      string
	ShortName string
	TLA       string
	Crest     string
	Venue     string
	Founded   *int
	Website   string

	Position     *int
	Points       *int
	Played       int
	Won          int
	Draw         int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Form         string
}

// Team is a club with optional table figures and attached matches.
type Team struct {
	ID        int
	Name      string
	ShortName string
	TLA       string
	Crest     string
	Venue     string
	Founded   *int
	Website   string

	Position     *int
	Points       *int
	Played       int
	Won          int
	Draw         int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Form         string

	matches []*Match
}

// NewTeam validates p and builds a Team.
func NewTeam(p TeamParams) (*Team, error) {
	if p.Founded != nil && *p.Founded < minFoundedYear {
		return nil, fmt.Errorf("team %d: %w (got %d)", p.ID, ErrInvalidFounded, *p.Founded)
	}
	return &Team{
		ID:           p.ID,
		Name:         p.Name,
		ShortName:    p.ShortName,
		TLA:          p.TLA,
		Crest:        p.Crest,
		Venue:        p.Venue,
		Founded:      p.Founded,
		Website:      p.Website,
		Position:     p.Position,
		Points:       p.Points,
		Played:       p.Played,
		Won:          p.Won,
		Draw:         p.Draw,
		Lost:         p.Lost,
		GoalsFor:     p.GoalsFor,
		GoalsAgainst: p.GoalsAgainst,
		Form:         p.Form,
	}, nil
}

// TeamFromRecord builds a Team from a team list or detail record.
func TeamFromRecord(rec model.TeamRecord) (*Team, error) {
	website := ""
	if rec.Website != nil {
		website = *rec.Website
	}
	return NewTeam(TeamParams{
		ID:        rec.TeamID,
		Name:      rec.Name,
		ShortName: rec.ShortName,
		TLA:       rec.TLA,
		Crest:     rec.Crest,
		Venue:     rec.Venue,
		Founded:   rec.Founded,
		Website:   website,
	})
}

// TeamFromStandings builds a Team carrying its table figures.
func TeamFromStandings(row model.StandingsRow) (*Team, error) {
	if row.TeamID == 0 || row.TeamName == "" {
		return nil, fmt.Errorf("standings row %d: %w", row.Position, ErrMissingIdentity)
	}
	position, points := row.Position, row.Points
	return NewTeam(TeamParams{
		ID:           row.TeamID,
		Name:         row.TeamName,
		ShortName:    row.ShortName,
		TLA:          row.TLA,
		Crest:        row.Crest,
		Position:     &position,
		Points:       &points,
		Played:       row.Played,
		Won:          row.Won,
		Draw:         row.Draw,
		Lost:         row.Lost,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Form:         row.Form,
	})
}

// TeamFromRef builds the slim Team used as a match side. A reference never
// carries a founding year, so it cannot fail validation.
func TeamFromRef(ref model.TeamRef) *Team {
	return &Team{
		ID:        ref.TeamID,
		Name:      ref.Name,
		ShortName: ref.ShortName,
		TLA:       ref.TLA,
		Crest:     ref.Crest,
	}
}

// AddMatch attaches m when the team plays in it and reports whether it did.
func (t *Team) AddMatch(m *Match) bool {
	if m == nil || (m.Home.ID != t.ID && m.Away.ID != t.ID) {
		return false
	}
	t.matches = append(t.matches, m)
	return true
}

// Matches returns the attached matches.
func (t *Team) Matches() []*Match {
	return t.matches
}

// TotalGoalsScored sums the team's full-time goals over attached matches.
// Missing values count as zero.
func (t *Team) TotalGoalsScored() int {
	goals := 0
	for _, m := range t.matches {
		ft := m.Score.FullTime
		switch {
		case m.Home.ID == t.ID && ft.Home != nil:
			goals += *ft.Home
		case m.Away.ID == t.ID && ft.Away != nil:
			goals += *ft.Away
		}
	}
	return goals
}

// WinPercentage is won/played*100 rounded to 2 decimals, 0 with no games.
func (t *Team) WinPercentage() float64 {
	if t.Played == 0 {
		return 0
	}
	return round2(float64(t.Won) / float64(t.Played) * 100)
}

// GoalDifference is goals for minus goals against.
func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// GoalsPerGame is goals for per played game, 0 with no games.
func (t *Team) GoalsPerGame() float64 {
	if t.Played == 0 {
		return 0
	}
	return round2(float64(t.GoalsFor) / float64(t.Played))
}

// GoalsConcededPerGame is goals against per played game, 0 with no games.
func (t *Team) GoalsConcededPerGame() float64 {
	if t.Played == 0 {
		return 0
	}
	return round2(float64(t.GoalsAgainst) / float64(t.Played))
}

func (t *Team) String() string {
	return fmt.Sprintf("<Team %s (%s)>", t.Name, t.TLA)
}

// TeamView is the display row of a team.
type TeamView struct {
	TeamID               int     `json:"team_id"`
	Name                 string  `json:"name"`
	ShortName            string  `json:"short_name,omitempty"`
	TLA                  string  `json:"tla"`
	Crest                string  `json:"crest,omitempty"`
	Venue                string  `json:"venue,omitempty"`
	Founded              *int    `json:"founded,omitempty"`
	Website              string  `json:"website,omitempty"`
	Position             *int    `json:"position,omitempty"`
	Points               *int    `json:"points,omitempty"`
	Played               int     `json:"played"`
	Won                  int     `json:"won"`
	Draw                 int     `json:"draw"`
	Lost                 int     `json:"lost"`
	GoalsFor             int     `json:"goals_for"`
	GoalsAgainst         int     `json:"goals_against"`
	GoalDifference       int     `json:"goal_difference"`
	WinPercentage        float64 `json:"win_percentage"`
	GoalsPerGame         float64 `json:"goals_per_game"`
	GoalsConcededPerGame float64 `json:"goals_conceded_per_game"`
	Form                 string  `json:"form,omitempty"`
}

// View flattens the team and its derived figures.
func (t *Team) View() TeamView {
	return TeamView{
		TeamID:               t.ID,
		Name:                 t.Name,
		ShortName:            t.ShortName,
		TLA:                  t.TLA,
		Crest:                t.Crest,
		Venue:                t.Venue,
		Founded:              t.Founded,
		Website:              t.Website,
		Position:             t.Position,
		Points:               t.Points,
		Played:               t.Played,
		Won:                  t.Won,
		Draw:                 t.Draw,
		Lost:                 t.Lost,
		GoalsFor:             t.GoalsFor,
		GoalsAgainst:         t.GoalsAgainst,
		GoalDifference:       t.GoalDifference(),
		WinPercentage:        t.WinPercentage(),
		GoalsPerGame:         t.GoalsPerGame(),
		GoalsConcededPerGame: t.GoalsConcededPerGame(),
		Form:                 t.Form,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
