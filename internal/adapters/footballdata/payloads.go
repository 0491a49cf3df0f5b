package footballdata

// Raw upstream payloads. Every nested object and optional value is a
// pointer so a missing field decodes to nil instead of failing the payload.

// TeamRef is the slim team object embedded in tables, matches and scorers.
type TeamRef struct {
	ID        *int    `json:"id"`
	Name      *string `json:"name"`
	ShortName *string `json:"shortName"`
	TLA       *string `json:"tla"`
	Crest     *string `json:"crest"`
}

// CompetitionRef identifies the competition a payload belongs to.
type CompetitionRef struct {
	ID   *int    `json:"id"`
	Code *string `json:"code"`
	Name *string `json:"name"`
}

// TableRow is one line of a standings table.
type TableRow struct {
	Position       *int     `json:"position"`
	Team           *TeamRef `json:"team"`
	PlayedGames    *int     `json:"playedGames"`
	Form           *string  `json:"form"`
	Won            *int     `json:"won"`
	Draw           *int     `json:"draw"`
	Lost           *int     `json:"lost"`
	Points         *int     `json:"points"`
	GoalsFor       *int     `json:"goalsFor"`
	GoalsAgainst   *int     `json:"goalsAgainst"`
	GoalDifference *int     `json:"goalDifference"`
}

// Standing is one table of a competition (TOTAL, HOME or AWAY).
type Standing struct {
	Stage *string    `json:"stage"`
	Type  *string    `json:"type"`
	Group *string    `json:"group"`
	Table []TableRow `json:"table"`
}

// StandingsResponse is the body of /competitions/{code}/standings.
type StandingsResponse struct {
	Competition *CompetitionRef `json:"competition"`
	Standings   []Standing      `json:"standings"`
}

// Person is a squad member or a coach.
type Person struct {
	ID          *int    `json:"id"`
	Name        *string `json:"name"`
	Position    *string `json:"position"`
	Role        *string `json:"role"`
	DateOfBirth *string `json:"dateOfBirth"`
	Nationality *string `json:"nationality"`
	ShirtNumber *int    `json:"shirtNumber"`
}

// Team is the full team object of /teams/{id} and team lists.
type Team struct {
	ID                  *int             `json:"id"`
	Name                *string          `json:"name"`
	ShortName           *string          `json:"shortName"`
	TLA                 *string          `json:"tla"`
	Crest               *string          `json:"crest"`
	Address             *string          `json:"address"`
	Website             *string          `json:"website"`
	Founded             *int             `json:"founded"`
	ClubColors          *string          `json:"clubColors"`
	Venue               *string          `json:"venue"`
	RunningCompetitions []CompetitionRef `json:"runningCompetitions"`
	Coach               *Person          `json:"coach"`
	Squad               []Person         `json:"squad"`
}

// TeamsResponse is the body of /competitions/{code}/teams.
type TeamsResponse struct {
	Count       *int            `json:"count"`
	Competition *CompetitionRef `json:"competition"`
	Teams       []Team          `json:"teams"`
}

// ScoreLine holds home and away goals, null until played.
type ScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score is the score block of a match.
type Score struct {
	Winner   *string    `json:"winner"`
	Duration *string    `json:"duration"`
	FullTime *ScoreLine `json:"fullTime"`
	HalfTime *ScoreLine `json:"halfTime"`
}

// Match is one fixture.
type Match struct {
	ID          *int            `json:"id"`
	UTCDate     *string         `json:"utcDate"`
	Status      *string         `json:"status"`
	Matchday    *int            `json:"matchday"`
	Competition *CompetitionRef `json:"competition"`
	HomeTeam    *TeamRef        `json:"homeTeam"`
	AwayTeam    *TeamRef        `json:"awayTeam"`
	Score       *Score          `json:"score"`
}

// MatchesResponse is the body of the team and competition match listings.
type MatchesResponse struct {
	Competition *CompetitionRef `json:"competition"`
	Matches     []Match         `json:"matches"`
}

// Scorer is one row of a scorers table.
type Scorer struct {
	Player        *Person  `json:"player"`
	Team          *TeamRef `json:"team"`
	PlayedMatches *int     `json:"playedMatches"`
	Goals         *int     `json:"goals"`
	Assists       *int     `json:"assists"`
	Penalties     *int     `json:"penalties"`
}

// ScorersResponse is the body of /competitions/{code}/scorers.
type ScorersResponse struct {
	Competition *CompetitionRef `json:"competition"`
	Scorers     []Scorer        `json:"scorers"`
}
