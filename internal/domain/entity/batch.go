package entity

import (
	"github.com/okian/footstats/internal/domain/model"
)

// Skip records a row dropped during batch construction.
type Skip struct {
	Index  int    `json:"index"`
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Batch is the outcome of building entities from a list of records: the
// entities that were built plus the rows that were skipped and why.
type Batch[T any] struct {
	Items   []T
	Skipped []Skip
}

func build[R, T any](records []R, id func(R) int, construct func(R) (T, error)) Batch[T] {
	b := Batch[T]{Items: make([]T, 0, len(records))}
	for i, rec := range records {
		item, err := construct(rec)
		if err != nil {
			b.Skipped = append(b.Skipped, Skip{Index: i, ID: id(rec), Reason: err.Error()})
			continue
		}
		b.Items = append(b.Items, item)
	}
	return b
}

// Players builds squad members, skipping malformed rows.
func Players(records []model.PlayerRecord) Batch[*Player] {
	return build(records, func(r model.PlayerRecord) int { return r.PlayerID }, PlayerFromRecord)
}

// Matches builds matches, skipping rows without a full-time score or with an
// unparsable kickoff.
func Matches(records []model.MatchRecord) Batch[*Match] {
	return build(records, func(r model.MatchRecord) int { return r.MatchID }, MatchFromRecord)
}

// TeamsFromStandings builds table teams, skipping malformed rows.
func TeamsFromStandings(rows []model.StandingsRow) Batch[*Team] {
	return build(rows, func(r model.StandingsRow) int { return r.TeamID }, TeamFromStandings)
}

// Teams builds teams from list records, skipping rows that fail validation.
func Teams(records []model.TeamRecord) Batch[*Team] {
	return build(records, func(r model.TeamRecord) int { return r.TeamID }, TeamFromRecord)
}
