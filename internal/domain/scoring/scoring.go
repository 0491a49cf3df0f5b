// Package scoring ranks goal scorers and derives season figures from a
// competition table.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/okian/footstats/internal/domain/model"
)

// DefaultScorerLimit is the length of a scorer leaderboard.
const DefaultScorerLimit = 20

// Ranked is a scorer row with its leaderboard rank.
type Ranked struct {
	Rank          int
	Row           model.ScorerRow
	GoalsPerMatch float64
}

// RankScorers orders rows by goals descending, then player name, keeps the
// first n (all when n <= 0) and assigns ranks. Equal goal counts share a
// rank and the next rank skips the tied positions.
func RankScorers(rows []model.ScorerRow, n int) []Ranked {
	sorted := make([]model.ScorerRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Goals != sorted[j].Goals {
			return sorted[i].Goals > sorted[j].Goals
		}
		return strings.ToLower(sorted[i].PlayerName) < strings.ToLower(sorted[j].PlayerName)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]Ranked, len(sorted))
	for i, row := range sorted {
		rank := i + 1
		if i > 0 && row.Goals == sorted[i-1].Goals {
			rank = out[i-1].Rank
		}
		out[i] = Ranked{
			Rank:          rank,
			Row:           row,
			GoalsPerMatch: GoalsPerMatch(row.Goals, row.Appearances),
		}
	}
	return out
}

// GoalsPerMatch is goals over appearances rounded to 2 decimals, 0 without
// appearances.
func GoalsPerMatch(goals, appearances int) float64 {
	if appearances <= 0 {
		return 0
	}
	return math.Round(float64(goals)/float64(appearances)*100) / 100
}

// MatchesPerTeam is the length of a double round-robin season between
// the given number of clubs.
func MatchesPerTeam(teams int) int {
	if teams < 2 {
		return 0
	}
	return 2 * (teams - 1)
}

// SeasonProgress is the share of the season played, in percent rounded to 1
// decimal: the most games any team has played over the games per team.
func SeasonProgress(rows []model.StandingsRow) float64 {
	total := MatchesPerTeam(len(rows))
	if total == 0 {
		return 0
	}
	played := 0
	for _, r := range rows {
		if r.Played > played {
			played = r.Played
		}
	}
	pct := float64(played) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}
