package entity

import (
	"fmt"
	"time"

	"github.com/okian/footstats/internal/domain/model"
)

const unplayedScore = "- : -"

// Match is a fixture between two teams.
type Match struct {
	ID          int
	Kickoff     time.Time
	Status      string
	Matchday    *int
	Competition string
	Home        *Team
	Away        *Team
	Score       model.Score
}

// NewMatch validates the kickoff and score shape and builds a Match. A score
// without a full-time line is malformed even when its values are empty.
func NewMatch(id int, utcDate, status string, matchday *int, home, away *Team, score *model.Score) (*Match, error) {
	if score == nil || score.FullTime == nil {
		return nil, fmt.Errorf("match %d: %w", id, ErrMissingFullTime)
	}
	kickoff, err := ParseKickoff(utcDate)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", id, err)
	}
	return &Match{
		ID:       id,
		Kickoff:  kickoff,
		Status:   status,
		Matchday: matchday,
		Home:     home,
		Away:     away,
		Score:    *score,
	}, nil
}

// MatchFromRecord builds a Match from a normalized record.
func MatchFromRecord(rec model.MatchRecord) (*Match, error) {
	m, err := NewMatch(rec.MatchID, rec.UTCDate, rec.Status, rec.Matchday,
		TeamFromRef(rec.HomeTeam), TeamFromRef(rec.AwayTeam), rec.Score)
	if err != nil {
		return nil, err
	}
	m.Competition = rec.CompetitionCode
	return m, nil
}

// ParseKickoff parses an upstream UTC timestamp.
func ParseKickoff(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKickoff, s)
	}
	return t.UTC(), nil
}

// IsFinished reports whether the match has been played to the end.
func (m *Match) IsFinished() bool {
	return m.Status == model.StatusFinished
}

func (m *Match) goals() (home, away int, ok bool) {
	ft := m.Score.FullTime
	if ft == nil || ft.Home == nil || ft.Away == nil {
		return 0, 0, false
	}
	return *ft.Home, *ft.Away, true
}

// Winner returns the side with strictly more full-time goals. It is nil for
// unfinished matches, draws, and finished matches missing a value.
func (m *Match) Winner() *Team {
	if !m.IsFinished() {
		return nil
	}
	home, away, ok := m.goals()
	switch {
	case !ok:
		return nil
	case home > away:
		return m.Home
	case away > home:
		return m.Away
	default:
		return nil
	}
}

// ScoreDisplay renders "h - a" for finished matches and "- : -" otherwise.
func (m *Match) ScoreDisplay() string {
	if !m.IsFinished() {
		return unplayedScore
	}
	home, away, ok := m.goals()
	if !ok {
		return unplayedScore
	}
	return fmt.Sprintf("%d - %d", home, away)
}

func (m *Match) String() string {
	return fmt.Sprintf("<Match %s vs %s (%s)>", m.Home.Name, m.Away.Name, m.Kickoff.Format(dateLayout))
}

// MatchView is the display row of a match.
type MatchView struct {
	MatchID      int    `json:"match_id"`
	Kickoff      string `json:"kickoff"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Matchday     *int   `json:"matchday,omitempty"`
	Competition  string `json:"competition,omitempty"`
	HomeTeamID   int    `json:"home_team_id"`
	HomeTeamName string `json:"home_team_name"`
	HomeCrest    string `json:"home_crest,omitempty"`
	AwayTeamID   int    `json:"away_team_id"`
	AwayTeamName string `json:"away_team_name"`
	AwayCrest    string `json:"away_crest,omitempty"`
	ScoreHome    *int   `json:"score_home"`
	ScoreAway    *int   `json:"score_away"`
	Score        string `json:"score"`
	WinnerTeamID *int   `json:"winner_team_id,omitempty"`
}

// View flattens the match with its derived score and winner.
func (m *Match) View() MatchView {
	v := MatchView{
		MatchID:      m.ID,
		Kickoff:      m.Kickoff.Format(time.RFC3339),
		Date:         m.Kickoff.Format("2006-01-02 15:04"),
		Status:       m.Status,
		Matchday:     m.Matchday,
		Competition:  m.Competition,
		HomeTeamID:   m.Home.ID,
		HomeTeamName: m.Home.Name,
		HomeCrest:    m.Home.Crest,
		AwayTeamID:   m.Away.ID,
		AwayTeamName: m.Away.Name,
		AwayCrest:    m.Away.Crest,
		ScoreHome:    m.Score.FullTime.Home,
		ScoreAway:    m.Score.FullTime.Away,
		Score:        m.ScoreDisplay(),
	}
	if w := m.Winner(); w != nil {
		id := w.ID
		v.WinnerTeamID = &id
	}
	return v
}
