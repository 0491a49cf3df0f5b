package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/footstats/internal/adapters/footballdata"
	service "github.com/okian/footstats/internal/app"
	"github.com/okian/footstats/internal/domain/model"
	"github.com/okian/footstats/internal/gateway"
	"github.com/okian/footstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type fakeGateway struct {
	standings map[string][]model.StandingsRow
	teams     map[string][]model.TeamRecord
	teamErrs  map[string]error
	details   map[int]model.TeamDetail
	detailErr map[int]error
	matches   []model.MatchRecord
	compMatch []model.MatchRecord
	scorers   []model.ScorerRow
	filters   []gateway.MatchFilter
}

func (f *fakeGateway) Competitions() []model.Competition {
	return []model.Competition{
		{Code: "PD", Name: "La Liga"},
		{Code: "PL", Name: "Premier League"},
		{Code: "SA", Name: "Serie A"},
	}
}

func (f *fakeGateway) Competition(code string) (model.Competition, error) {
	for _, c := range f.Competitions() {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return model.Competition{}, fmt.Errorf("%w: %q", gateway.ErrUnknownCompetition, code)
}

func (f *fakeGateway) Standings(_ context.Context, code string) ([]model.StandingsRow, error) {
	return f.standings[code], nil
}

func (f *fakeGateway) Teams(_ context.Context, code string) ([]model.TeamRecord, error) {
	if err := f.teamErrs[code]; err != nil {
		return nil, err
	}
	return f.teams[code], nil
}

func (f *fakeGateway) Team(_ context.Context, id int) (model.TeamDetail, error) {
	if err := f.detailErr[id]; err != nil {
		return model.TeamDetail{}, err
	}
	d, ok := f.details[id]
	if !ok {
		return model.TeamDetail{}, &footballdata.DataSourceError{Endpoint: "team", Status: 404}
	}
	return d, nil
}

func (f *fakeGateway) TeamMatches(_ context.Context, _ int, mf gateway.MatchFilter) ([]model.MatchRecord, error) {
	f.filters = append(f.filters, mf)
	return f.matches, nil
}

func (f *fakeGateway) CompetitionMatches(_ context.Context, _ string, _, _ time.Time) ([]model.MatchRecord, error) {
	return f.compMatch, nil
}

func (f *fakeGateway) TopScorers(_ context.Context, _ string, _ int) ([]model.ScorerRow, error) {
	return f.scorers, nil
}

type memoryFavorites struct {
	mu      sync.Mutex
	ids     []int
	saves   int
	loadErr error
}

func (m *memoryFavorites) Load(context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]int{}, m.ids...), nil
}

func (m *memoryFavorites) Save(_ context.Context, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append([]int{}, ids...)
	m.saves++
	return nil
}

func match(id int, utc, status string, home, away *int) model.MatchRecord {
	return model.MatchRecord{
		MatchID:  id,
		UTCDate:  utc,
		Status:   status,
		HomeTeam: model.TeamRef{TeamID: 57, Name: "Arsenal FC"},
		AwayTeam: model.TeamRef{TeamID: 61, Name: "Chelsea FC"},
		Score:    &model.Score{FullTime: &model.ScoreLine{Home: home, Away: away}},
	}
}

func newFixture() (*fakeGateway, *memoryFavorites) {
	gw := &fakeGateway{
		standings: map[string][]model.StandingsRow{
			"PL": {
				{Position: 1, TeamID: 57, TeamName: "Arsenal FC", Played: 19, Won: 14, Draw: 3, Lost: 2, Points: 45, GoalsFor: 40, GoalsAgainst: 15},
				{Position: 2, TeamID: 0, TeamName: "", Played: 19},
				{Position: 3, TeamID: 61, TeamName: "Chelsea FC", Played: 18, Won: 9, Draw: 4, Lost: 5, Points: 31, GoalsFor: 30, GoalsAgainst: 22},
			},
		},
		teams: map[string][]model.TeamRecord{
			"PL": {
				{TeamID: 61, Name: "Chelsea FC"},
				{TeamID: 57, Name: "Arsenal FC"},
				{TeamID: 563, Name: "West Ham United FC"},
			},
			"PD": {
				{TeamID: 86, Name: "Real Madrid CF"},
				{TeamID: 81, Name: "FC Barcelona"},
			},
			"SA": {
				{TeamID: 109, Name: "Juventus FC"},
				{TeamID: 98, Name: "AC Milan"},
			},
		},
		details: map[int]model.TeamDetail{
			57: {
				Team:  model.TeamRecord{TeamID: 57, Name: "Arsenal FC", Crest: "afc.png", Founded: intPtr(1886), Competitions: []string{"CL", "PL"}},
				Coach: "Mikel Arteta",
				Squad: []model.PlayerRecord{
					{PlayerID: 3, Name: "Saka", Position: "Right Winger", DateOfBirth: strPtr("2001-09-05"), ShirtNumber: intPtr(7)},
					{PlayerID: 1, Name: "Raya", Position: "Goalkeeper"},
					{PlayerID: 0, Name: "Nobody"},
					{PlayerID: 2, Name: "Saliba", Position: "Centre-Back"},
				},
			},
			86: {
				Team: model.TeamRecord{TeamID: 86, Name: "Real Madrid CF", Competitions: []string{"PD"}},
			},
		},
		matches: []model.MatchRecord{
			match(1, "2024-03-01T15:00:00Z", model.StatusFinished, intPtr(2), intPtr(1)),
			match(2, "2024-04-20T15:00:00Z", model.StatusFinished, intPtr(0), intPtr(3)),
			match(3, "2024-05-10T15:00:00Z", model.StatusTimed, nil, nil),
			{MatchID: 4, UTCDate: "2024-05-20T15:00:00Z", Status: model.StatusScheduled},
		},
	}
	return gw, &memoryFavorites{}
}

func startedService(gw *fakeGateway, favs *memoryFavorites, opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithGateway(gw),
		service.WithFavoritesStore(favs),
		service.WithClock(func() time.Time { return testNow }),
	}, opts...)
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["windowDays"], ShouldEqual, 120)
			So(stats["windowSize"], ShouldEqual, 5)
			So(stats["scorerLimit"], ShouldEqual, 20)
		})

		Convey("When starting without collaborators", func() {
			err := svc.Start(context.Background())

			Convey("Then it should report the missing dependency", func() {
				So(errors.Is(err, service.ErrMissingDependency), ShouldBeTrue)
			})
		})

		Convey("When an operation is called before Start", func() {
			_, err := svc.Standings(context.Background(), "PL")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a configured service", t, func() {
		gw, favs := newFixture()
		favs.ids = []int{57}
		svc := startedService(gw, favs, service.WithMatchWindow(30, 2), service.WithScorerLimit(10))

		Convey("Then it should be marked as started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["competitions"], ShouldEqual, 3)
			So(stats["favorites"], ShouldEqual, 1)
			So(stats["windowDays"], ShouldEqual, 30)
			So(stats["scorerLimit"], ShouldEqual, 10)
		})

		Convey("When it is started twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})

		Convey("When it is stopped", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then operations should be rejected", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
				_, err := svc.Competitions(context.Background())
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given a favorites store that cannot be read", t, func() {
		gw, favs := newFixture()
		favs.loadErr = errors.New("disk gone")
		svc := service.New(service.WithGateway(gw), service.WithFavoritesStore(favs))

		Convey("Then Start should fail", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Standings(t *testing.T) {
	Convey("Given a competition table with a malformed row", t, func() {
		gw, favs := newFixture()
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the standings are requested by a lower-case code", func() {
			view, err := svc.Standings(context.Background(), "pl")

			Convey("Then the valid rows should be built", func() {
				So(err, ShouldBeNil)
				So(view.Competition.Name, ShouldEqual, "Premier League")
				So(len(view.Teams), ShouldEqual, 2)
				So(view.Teams[0].Name, ShouldEqual, "Arsenal FC")
				So(view.Teams[0].GoalDifference, ShouldEqual, 25)
				So(view.Teams[0].WinPercentage, ShouldEqual, 73.68)
			})

			Convey("And the malformed row should be reported", func() {
				So(len(view.Skipped), ShouldEqual, 1)
				So(view.Skipped[0].Index, ShouldEqual, 1)
			})

			Convey("And season progress should use the raw row count", func() {
				So(view.MatchesPerTeam, ShouldEqual, 4)
				So(view.SeasonProgress, ShouldEqual, 100)
			})
		})

		Convey("When an unknown competition is requested", func() {
			_, err := svc.Standings(context.Background(), "XX")

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, gateway.ErrUnknownCompetition), ShouldBeTrue)
			})
		})
	})
}

func TestService_Teams(t *testing.T) {
	Convey("Given a competition with teams", t, func() {
		gw, favs := newFixture()
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the teams are listed", func() {
			view, err := svc.Teams(context.Background(), "PL")

			Convey("Then they should be ordered by name", func() {
				So(err, ShouldBeNil)
				So(len(view.Teams), ShouldEqual, 3)
				So(view.Teams[0].Name, ShouldEqual, "Arsenal FC")
				So(view.Teams[1].Name, ShouldEqual, "Chelsea FC")
				So(view.Teams[2].Name, ShouldEqual, "West Ham United FC")
			})
		})
	})
}

func TestService_TeamDetail(t *testing.T) {
	Convey("Given a team with a squad and a fixture list", t, func() {
		gw, favs := newFixture()
		favs.ids = []int{57}
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the team detail is requested", func() {
			view, err := svc.TeamDetail(context.Background(), 57)
			So(err, ShouldBeNil)

			Convey("Then the match window should be centred on today", func() {
				So(len(gw.filters), ShouldEqual, 1)
				So(gw.filters[0].From.Equal(testNow.Add(-120*24*time.Hour)), ShouldBeTrue)
				So(gw.filters[0].To.Equal(testNow.Add(120*24*time.Hour)), ShouldBeTrue)
				So(gw.filters[0].Limit, ShouldEqual, 60)
			})

			Convey("And the team info should be present", func() {
				So(view.Team.Name, ShouldEqual, "Arsenal FC")
				So(view.Coach, ShouldEqual, "Mikel Arteta")
				So(view.Favorite, ShouldBeTrue)
			})

			Convey("And the squad should be ordered by position", func() {
				So(len(view.Squad), ShouldEqual, 3)
				So(view.Squad[0].Name, ShouldEqual, "Raya")
				So(view.Squad[1].Name, ShouldEqual, "Saliba")
				So(view.Squad[2].Name, ShouldEqual, "Saka")
				So(*view.Squad[2].Age, ShouldEqual, 22)
				So(view.Skipped.Players, ShouldEqual, 1)
			})

			Convey("And matches should be split around today", func() {
				So(len(view.Recent), ShouldEqual, 2)
				So(view.Recent[0].MatchID, ShouldEqual, 1)
				So(view.Recent[1].Score, ShouldEqual, "0 - 3")
				So(len(view.Upcoming), ShouldEqual, 1)
				So(view.Upcoming[0].MatchID, ShouldEqual, 3)
				So(view.Upcoming[0].Score, ShouldEqual, "- : -")
				So(view.Skipped.Matches, ShouldEqual, 1)
			})
		})

		Convey("When the team is not a favorite", func() {
			favs.ids = nil
			view, err := svc.TeamDetail(context.Background(), 57)

			Convey("Then the flag should be off", func() {
				So(err, ShouldBeNil)
				So(view.Favorite, ShouldBeFalse)
			})
		})

		Convey("When the upstream does not know the team", func() {
			_, err := svc.TeamDetail(context.Background(), 999)

			Convey("Then the data source error should surface", func() {
				So(footballdata.StatusOf(err), ShouldEqual, 404)
			})
		})
	})

	Convey("Given six past matches, the newest without a full-time score", t, func() {
		gw, favs := newFixture()
		gw.matches = nil
		for i := 0; i < 6; i++ {
			gw.matches = append(gw.matches,
				match(10+i, fmt.Sprintf("2024-04-%02dT15:00:00Z", i+1), model.StatusFinished, intPtr(1), intPtr(0)))
		}
		gw.matches[5].Score = &model.Score{}
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the team detail is requested", func() {
			view, err := svc.TeamDetail(context.Background(), 57)
			So(err, ShouldBeNil)

			Convey("Then the broken match should not take a recent slot", func() {
				So(len(view.Recent), ShouldEqual, 5)
				got := make([]int, 0, len(view.Recent))
				for _, m := range view.Recent {
					got = append(got, m.MatchID)
				}
				So(got, ShouldResemble, []int{10, 11, 12, 13, 14})
				So(view.Upcoming, ShouldBeEmpty)
				So(view.Skipped.Matches, ShouldEqual, 1)
			})
		})
	})
}

func TestService_TopScorers(t *testing.T) {
	Convey("Given scorers with tied goal counts", t, func() {
		gw, favs := newFixture()
		gw.scorers = []model.ScorerRow{
			{PlayerID: 2, PlayerName: "Watkins", Goals: 19, Appearances: 30, Team: model.TeamRef{TeamID: 58, Name: "Aston Villa FC"}},
			{PlayerID: 1, PlayerName: "Haaland", Goals: 27, Appearances: 31, Team: model.TeamRef{TeamID: 65, Name: "Manchester City FC"}},
			{PlayerID: 3, PlayerName: "Palmer", Goals: 19, Appearances: 0},
		}
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the leaderboard is requested", func() {
			view, err := svc.TopScorers(context.Background(), "PL")

			Convey("Then it should be ranked with shared ranks", func() {
				So(err, ShouldBeNil)
				So(len(view.Scorers), ShouldEqual, 3)
				So(view.Scorers[0].PlayerName, ShouldEqual, "Haaland")
				So(view.Scorers[0].Rank, ShouldEqual, 1)
				So(view.Scorers[0].GoalsPerMatch, ShouldEqual, 0.87)
				So(view.Scorers[0].TeamName, ShouldEqual, "Manchester City FC")
				So(view.Scorers[1].PlayerName, ShouldEqual, "Palmer")
				So(view.Scorers[1].Rank, ShouldEqual, 2)
				So(view.Scorers[1].GoalsPerMatch, ShouldEqual, 0)
				So(view.Scorers[2].Rank, ShouldEqual, 2)
			})
		})
	})
}

func TestService_CompetitionMatches(t *testing.T) {
	Convey("Given competition matches out of order", t, func() {
		gw, favs := newFixture()
		gw.compMatch = []model.MatchRecord{
			match(2, "2024-04-20T15:00:00Z", model.StatusFinished, intPtr(0), intPtr(3)),
			match(1, "2024-03-01T15:00:00Z", model.StatusFinished, intPtr(2), intPtr(1)),
			match(5, "not-a-date", model.StatusFinished, intPtr(1), intPtr(1)),
		}
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When they are listed", func() {
			from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
			view, err := svc.CompetitionMatches(context.Background(), "PL", from, to)

			Convey("Then they should be in kickoff order with bad rows skipped", func() {
				So(err, ShouldBeNil)
				So(view.From, ShouldEqual, "2024-03-01")
				So(view.To, ShouldEqual, "2024-04-30")
				So(len(view.Matches), ShouldEqual, 2)
				So(view.Matches[0].MatchID, ShouldEqual, 1)
				So(view.Matches[1].MatchID, ShouldEqual, 2)
				So(len(view.Skipped), ShouldEqual, 1)
				So(view.Skipped[0].ID, ShouldEqual, 5)
			})
		})
	})
}

func TestService_TeamMatches(t *testing.T) {
	Convey("Given a team fixture list", t, func() {
		gw, favs := newFixture()
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the team matches are filtered", func() {
			f := gateway.MatchFilter{
				From:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Status: model.StatusFinished,
				Limit:  10,
			}
			view, err := svc.TeamMatches(context.Background(), 57, f)

			Convey("Then the filter should reach the gateway", func() {
				So(err, ShouldBeNil)
				So(len(gw.filters), ShouldEqual, 1)
				So(gw.filters[0].Status, ShouldEqual, model.StatusFinished)
				So(gw.filters[0].Limit, ShouldEqual, 10)
			})

			Convey("And the view should echo it", func() {
				So(view.TeamID, ShouldEqual, 57)
				So(view.From, ShouldEqual, "2024-03-01")
				So(view.To, ShouldEqual, "")
				So(view.Status, ShouldEqual, model.StatusFinished)
				So(len(view.Matches), ShouldEqual, 3)
				So(len(view.Skipped), ShouldEqual, 1)
			})
		})
	})
}

func TestService_Favorites(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When the favorite flag is read", func() {
			var (
				fav bool
				err error
			)
			So(func() { fav, err = svc.IsFavorite(context.Background(), 57) }, ShouldNotPanic)

			Convey("Then it should report the service is not ready", func() {
				So(fav, ShouldBeFalse)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty favorites store", t, func() {
		gw, favs := newFixture()
		svc := startedService(gw, favs)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When a team is added twice", func() {
			_, err := svc.AddFavorite(ctx, 57)
			So(err, ShouldBeNil)
			ids, err := svc.AddFavorite(ctx, 57)

			Convey("Then it should be stored once", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []int{57})
				So(favs.saves, ShouldEqual, 1)
			})
		})

		Convey("When teams are added and one removed", func() {
			_, _ = svc.AddFavorite(ctx, 57)
			_, _ = svc.AddFavorite(ctx, 86)
			ids, err := svc.RemoveFavorite(ctx, 57)

			Convey("Then only the other should remain", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []int{86})
				fav, _ := svc.IsFavorite(ctx, 57)
				So(fav, ShouldBeFalse)
			})
		})

		Convey("When an absent team is removed", func() {
			ids, err := svc.RemoveFavorite(ctx, 57)

			Convey("Then nothing should be written", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldBeEmpty)
				So(favs.saves, ShouldEqual, 0)
			})
		})

		Convey("When a team is toggled twice", func() {
			on, err := svc.ToggleFavorite(ctx, 57)
			So(err, ShouldBeNil)
			So(on, ShouldBeTrue)
			off, err := svc.ToggleFavorite(ctx, 57)

			Convey("Then it should end up off", func() {
				So(err, ShouldBeNil)
				So(off, ShouldBeFalse)
				ids, _ := svc.FavoriteIDs(ctx)
				So(ids, ShouldBeEmpty)
			})
		})

		Convey("When an invalid id is added", func() {
			_, err := svc.AddFavorite(ctx, 0)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, gateway.ErrInvalidArgument), ShouldBeTrue)
			})
		})
	})

	Convey("Given stored favorites including an unknown team", t, func() {
		gw, favs := newFixture()
		favs.ids = []int{57, 404, 86}
		svc := startedService(gw, favs)
		defer svc.Stop()

		Convey("When the favorites are resolved", func() {
			view, err := svc.Favorites(context.Background())

			Convey("Then known teams should carry their league", func() {
				So(err, ShouldBeNil)
				So(len(view.Favorites), ShouldEqual, 2)
				So(view.Favorites[0].Name, ShouldEqual, "Arsenal FC")
				So(view.Favorites[0].LeagueCode, ShouldEqual, "PL")
				So(view.Favorites[0].League, ShouldEqual, "Premier League")
				So(view.Favorites[1].LeagueCode, ShouldEqual, "PD")
			})

			Convey("And the unknown one should be reported", func() {
				So(len(view.Unresolved), ShouldEqual, 1)
				So(view.Unresolved[0].TeamID, ShouldEqual, 404)
			})
		})

		Convey("When the upstream is not configured", func() {
			gw.detailErr = map[int]error{86: fmt.Errorf("%w: missing token", footballdata.ErrConfiguration)}
			_, err := svc.Favorites(context.Background())

			Convey("Then resolution should abort", func() {
				So(errors.Is(err, footballdata.ErrConfiguration), ShouldBeTrue)
			})
		})
	})
}

func TestService_Search(t *testing.T) {
	Convey("Given teams across competitions", t, func() {
		gw, favs := newFixture()
		svc := startedService(gw, favs)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When the query is too short", func() {
			view, err := svc.Search(ctx, " a ")

			Convey("Then nothing should match", func() {
				So(err, ShouldBeNil)
				So(view.Query, ShouldEqual, "a")
				So(view.Results, ShouldBeEmpty)
			})
		})

		Convey("When the query matches several leagues", func() {
			view, err := svc.Search(ctx, "fc")

			Convey("Then matches should be case-insensitive", func() {
				So(err, ShouldBeNil)
				So(len(view.Results), ShouldEqual, 5)
				So(view.Results[0].LeagueCode, ShouldEqual, "PD")
				So(view.Results[0].TeamName, ShouldEqual, "FC Barcelona")
				So(view.Results[0].League, ShouldEqual, "La Liga")
			})
		})

		Convey("When one competition cannot be fetched", func() {
			gw.teamErrs = map[string]error{"SA": &footballdata.DataSourceError{Endpoint: "competition_teams", Status: 500}}
			view, err := svc.Search(ctx, "milan")

			Convey("Then the others should still be searched", func() {
				So(err, ShouldBeNil)
				So(view.Results, ShouldBeEmpty)
				So(view.Failed, ShouldResemble, []string{"SA"})
			})
		})

		Convey("When the upstream is not configured", func() {
			gw.teamErrs = map[string]error{"PD": fmt.Errorf("%w: missing token", footballdata.ErrConfiguration)}
			_, err := svc.Search(ctx, "madrid")

			Convey("Then the search should fail", func() {
				So(errors.Is(err, footballdata.ErrConfiguration), ShouldBeTrue)
			})
		})
	})
}
