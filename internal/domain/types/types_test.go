package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/footstats/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScorerView(t *testing.T) {
	Convey("Given a scorer without assist figures", t, func() {
		v := types.ScorerView{Rank: 1, PlayerName: "Erling Haaland", Goals: 27, Appearances: 31}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(v)
			So(err, ShouldBeNil)

			Convey("Then missing figures are explicit nulls", func() {
				So(string(raw), ShouldContainSubstring, `"assists":null`)
				So(string(raw), ShouldContainSubstring, `"goals_per_match":0`)
			})
		})
	})
}

func TestFavoritesView(t *testing.T) {
	Convey("Given a favorites view with nothing unresolved", t, func() {
		v := types.FavoritesView{Favorites: []types.Favorite{{TeamID: 86, Name: "Real Madrid CF", LeagueCode: "PD"}}}

		Convey("Then the unresolved list is omitted", func() {
			raw, err := json.Marshal(v)
			So(err, ShouldBeNil)
			So(string(raw), ShouldNotContainSubstring, "unresolved")
			So(string(raw), ShouldContainSubstring, `"league_code":"PD"`)
		})
	})
}
