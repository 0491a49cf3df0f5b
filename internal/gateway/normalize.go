package gateway

import (
	"strings"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/internal/domain/model"
)

const totalTable = "TOTAL"

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func teamRef(t *footballdata.TeamRef) model.TeamRef {
	if t == nil {
		return model.TeamRef{}
	}
	return model.TeamRef{
		TeamID:    num(t.ID),
		Name:      str(t.Name),
		ShortName: str(t.ShortName),
		TLA:       str(t.TLA),
		Crest:     str(t.Crest),
	}
}

// totalStanding picks the TOTAL table, or the first table when none is typed.
func totalStanding(standings []footballdata.Standing) *footballdata.Standing {
	for i := range standings {
		if strings.EqualFold(str(standings[i].Type), totalTable) {
			return &standings[i]
		}
	}
	if len(standings) > 0 {
		return &standings[0]
	}
	return nil
}

func normalizeStandings(code string, resp *footballdata.StandingsResponse) []model.StandingsRow {
	if resp == nil {
		return []model.StandingsRow{}
	}
	table := totalStanding(resp.Standings)
	if table == nil {
		return []model.StandingsRow{}
	}
	rows := make([]model.StandingsRow, 0, len(table.Table))
	for _, r := range table.Table {
		team := teamRef(r.Team)
		won, draw, lost := num(r.Won), num(r.Draw), num(r.Lost)
		played := won + draw + lost
		if r.PlayedGames != nil {
			played = *r.PlayedGames
		}
		gf, ga := num(r.GoalsFor), num(r.GoalsAgainst)
		rows = append(rows, model.StandingsRow{
			CompetitionCode: code,
			Position:        num(r.Position),
			TeamID:          team.TeamID,
			TeamName:        team.Name,
			ShortName:       team.ShortName,
			TLA:             team.TLA,
			Crest:           team.Crest,
			Played:          played,
			Won:             won,
			Draw:            draw,
			Lost:            lost,
			Points:          num(r.Points),
			GoalsFor:        gf,
			GoalsAgainst:    ga,
			GoalDifference:  gf - ga,
			Form:            str(r.Form),
		})
	}
	return rows
}

func teamRecord(t *footballdata.Team, code string) model.TeamRecord {
	rec := model.TeamRecord{
		TeamID:    num(t.ID),
		Name:      str(t.Name),
		ShortName: str(t.ShortName),
		TLA:       str(t.TLA),
		Crest:     str(t.Crest),
		Venue:     str(t.Venue),
		Founded:   t.Founded,
		Website:   t.Website,
	}
	seen := map[string]bool{}
	add := func(c string) {
		c = strings.ToUpper(c)
		if c != "" && !seen[c] {
			seen[c] = true
			rec.Competitions = append(rec.Competitions, c)
		}
	}
	add(code)
	for _, rc := range t.RunningCompetitions {
		add(str(rc.Code))
	}
	return rec
}

func normalizeTeams(code string, resp *footballdata.TeamsResponse) []model.TeamRecord {
	if resp == nil {
		return []model.TeamRecord{}
	}
	out := make([]model.TeamRecord, 0, len(resp.Teams))
	for i := range resp.Teams {
		out = append(out, teamRecord(&resp.Teams[i], code))
	}
	return out
}

// isCoach reports whether a squad entry is coaching staff.
func isCoach(p footballdata.Person) bool {
	return strings.Contains(strings.ToLower(str(p.Role)), "coach") ||
		strings.Contains(strings.ToLower(str(p.Position)), "coach")
}

func normalizeTeamDetail(t *footballdata.Team) model.TeamDetail {
	if t == nil {
		return model.TeamDetail{Squad: []model.PlayerRecord{}}
	}
	detail := model.TeamDetail{
		Team:  teamRecord(t, ""),
		Squad: make([]model.PlayerRecord, 0, len(t.Squad)),
	}
	if t.Coach != nil {
		detail.Coach = str(t.Coach.Name)
	}
	for _, p := range t.Squad {
		if isCoach(p) {
			continue
		}
		detail.Squad = append(detail.Squad, model.PlayerRecord{
			PlayerID:    num(p.ID),
			Name:        str(p.Name),
			Position:    str(p.Position),
			Nationality: str(p.Nationality),
			DateOfBirth: p.DateOfBirth,
			ShirtNumber: p.ShirtNumber,
		})
	}
	return detail
}

func scoreLine(l *footballdata.ScoreLine) *model.ScoreLine {
	if l == nil {
		return nil
	}
	return &model.ScoreLine{Home: l.Home, Away: l.Away}
}

func normalizeMatches(code string, resp *footballdata.MatchesResponse) []model.MatchRecord {
	if resp == nil {
		return []model.MatchRecord{}
	}
	out := make([]model.MatchRecord, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		rec := model.MatchRecord{
			MatchID:         num(m.ID),
			UTCDate:         str(m.UTCDate),
			Status:          str(m.Status),
			Matchday:        m.Matchday,
			CompetitionCode: code,
			HomeTeam:        teamRef(m.HomeTeam),
			AwayTeam:        teamRef(m.AwayTeam),
		}
		if m.Competition != nil && m.Competition.Code != nil {
			rec.CompetitionCode = *m.Competition.Code
		}
		if m.Score != nil {
			rec.Score = &model.Score{
				Winner:   str(m.Score.Winner),
				FullTime: scoreLine(m.Score.FullTime),
				HalfTime: scoreLine(m.Score.HalfTime),
			}
		}
		out = append(out, rec)
	}
	return out
}

func normalizeScorers(code string, resp *footballdata.ScorersResponse) []model.ScorerRow {
	if resp == nil {
		return []model.ScorerRow{}
	}
	out := make([]model.ScorerRow, 0, len(resp.Scorers))
	for _, s := range resp.Scorers {
		row := model.ScorerRow{
			CompetitionCode: code,
			Team:            teamRef(s.Team),
			Goals:           num(s.Goals),
			Assists:         s.Assists,
			Penalties:       s.Penalties,
			Appearances:     num(s.PlayedMatches),
		}
		if s.Player != nil {
			row.PlayerID = num(s.Player.ID)
			row.PlayerName = str(s.Player.Name)
			row.Nationality = str(s.Player.Nationality)
			row.Position = str(s.Player.Position)
		}
		out = append(out, row)
	}
	return out
}
