package entity_test

import (
	"testing"
	"time"

	"github.com/okian/footstats/internal/domain/entity"
	"github.com/okian/footstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ids(recs []model.MatchRecord) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.MatchID
	}
	return out
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	at := func(id int, d time.Duration) model.MatchRecord {
		return model.MatchRecord{MatchID: id, UTCDate: now.Add(d).Format(time.RFC3339)}
	}

	Convey("Given matches on both sides of now, unordered", t, func() {
		records := []model.MatchRecord{
			at(5, 72*time.Hour),
			at(1, -96*time.Hour),
			at(3, -24*time.Hour),
			at(2, -48*time.Hour),
			at(4, 24*time.Hour),
			at(6, 96*time.Hour),
		}

		Convey("Then the last n past and first n future come back in kickoff order", func() {
			So(ids(entity.Window(records, now, 2)), ShouldResemble, []int{2, 3, 4, 5})
		})

		Convey("Then a large n returns everything", func() {
			So(ids(entity.Window(records, now, 10)), ShouldResemble, []int{1, 2, 3, 4, 5, 6})
		})

		Convey("Then n <= 0 returns nothing", func() {
			So(entity.Window(records, now, 0), ShouldBeEmpty)
		})
	})

	Convey("Given a match kicking off exactly now", t, func() {
		records := []model.MatchRecord{at(1, 0), at(2, time.Minute)}

		Convey("Then it counts as past", func() {
			So(ids(entity.Window(records, now, 1)), ShouldResemble, []int{1, 2})
		})
	})

	Convey("Given only future matches", t, func() {
		records := []model.MatchRecord{at(1, time.Hour), at(2, 2*time.Hour), at(3, 3*time.Hour)}
		So(ids(entity.Window(records, now, 2)), ShouldResemble, []int{1, 2})
	})

	Convey("Given a record with a bad kickoff", t, func() {
		records := []model.MatchRecord{at(1, -time.Hour), {MatchID: 9, UTCDate: "tbd"}, at(2, time.Hour)}
		So(ids(entity.Window(records, now, 5)), ShouldResemble, []int{1, 2})
	})
}

func TestWindowMatches(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	at := func(id int, d time.Duration) *entity.Match {
		return &entity.Match{ID: id, Kickoff: now.Add(d)}
	}
	matchIDs := func(ms []*entity.Match) []int {
		out := make([]int, len(ms))
		for i, m := range ms {
			out[i] = m.ID
		}
		return out
	}

	Convey("Given built matches on both sides of now, unordered", t, func() {
		matches := []*entity.Match{
			at(4, 24*time.Hour),
			at(1, -72*time.Hour),
			nil,
			at(3, 0),
			at(2, -48*time.Hour),
			at(5, 48*time.Hour),
		}

		Convey("Then the last n past and first n future come back in kickoff order", func() {
			So(matchIDs(entity.WindowMatches(matches, now, 2)), ShouldResemble, []int{2, 3, 4, 5})
		})

		Convey("Then nil entries are ignored", func() {
			So(matchIDs(entity.WindowMatches(matches, now, 10)), ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("Then n <= 0 returns nothing", func() {
			So(entity.WindowMatches(matches, now, 0), ShouldBeEmpty)
		})
	})
}
