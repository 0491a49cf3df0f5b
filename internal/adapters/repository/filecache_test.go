package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T) (*FileCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	return c, clock
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty cache", t, func() {
		c, clock := newTestCache(t)

		Convey("When nothing was stored", func() {
			_, ok := c.Get(ctx, "standings_PL", time.Minute)
			So(ok, ShouldBeFalse)
		})

		Convey("When a value is stored", func() {
			c.Set(ctx, "standings_PL", []map[string]any{{"team_id": 57, "points": 89}})

			Convey("Then it is read back within the TTL", func() {
				raw, ok := c.Get(ctx, "standings_PL", 10*time.Minute)
				So(ok, ShouldBeTrue)
				var rows []map[string]int
				So(json.Unmarshal(raw, &rows), ShouldBeNil)
				So(rows[0]["team_id"], ShouldEqual, 57)
			})

			Convey("Then it is still fresh exactly at the TTL", func() {
				clock.Advance(10 * time.Minute)
				_, ok := c.Get(ctx, "standings_PL", 10*time.Minute)
				So(ok, ShouldBeTrue)
			})

			Convey("Then it expires once older than the TTL", func() {
				clock.Advance(10*time.Minute + time.Second)
				_, ok := c.Get(ctx, "standings_PL", 10*time.Minute)
				So(ok, ShouldBeFalse)
			})

			Convey("Then a later write replaces it", func() {
				c.Set(ctx, "standings_PL", []int{1})
				v, ok := GetAs[[]int](ctx, c, "standings_PL", time.Minute)
				So(ok, ShouldBeTrue)
				So(v, ShouldResemble, []int{1})
			})
		})
	})
}

func TestFileCache_OnDiskFormat(t *testing.T) {
	ctx := context.Background()

	Convey("Given a stored entry", t, func() {
		c, clock := newTestCache(t)
		c.Set(ctx, "teams_PD", map[string]string{"name": "Real Madrid CF"})

		Convey("Then the file holds a unix timestamp and the data", func() {
			raw, err := os.ReadFile(filepath.Join(c.Dir(), "teams_PD.json"))
			So(err, ShouldBeNil)

			var doc struct {
				TS   float64           `json:"ts"`
				Data map[string]string `json:"data"`
			}
			So(json.Unmarshal(raw, &doc), ShouldBeNil)
			So(doc.TS, ShouldEqual, float64(clock.t.Unix()))
			So(doc.Data["name"], ShouldEqual, "Real Madrid CF")
		})

		Convey("Then no temp files are left behind", func() {
			entries, err := os.ReadDir(c.Dir())
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
		})
	})
}

func TestFileCache_Unreadable(t *testing.T) {
	ctx := context.Background()

	Convey("Given entries written by hand", t, func() {
		c, _ := newTestCache(t)
		write := func(key, body string) {
			So(os.WriteFile(filepath.Join(c.Dir(), key+".json"), []byte(body), 0o600), ShouldBeNil)
		}

		Convey("When the file is not JSON", func() {
			write("standings_SA", "{not json")
			_, ok := c.Get(ctx, "standings_SA", time.Hour)
			So(ok, ShouldBeFalse)
		})

		Convey("When the timestamp is missing", func() {
			write("standings_SA", `{"data": [1, 2]}`)
			_, ok := c.Get(ctx, "standings_SA", time.Hour)
			So(ok, ShouldBeFalse)
		})

		Convey("When the data does not fit the requested type", func() {
			c.Set(ctx, "teams_SA", "not a list")
			_, ok := GetAs[[]int](ctx, c, "teams_SA", time.Hour)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSanitizeKey(t *testing.T) {
	Convey("Given keys with unsafe characters", t, func() {
		So(SanitizeKey("standings_PL"), ShouldEqual, "standings_PL")
		So(SanitizeKey("teammatches_57_2024-01-01_2024-05-01__10"), ShouldEqual, "teammatches_57_2024-01-01_2024-05-01__10")
		So(SanitizeKey("a/b:c d"), ShouldEqual, "a_b_c_d")
		So(SanitizeKey("../etc/passwd"), ShouldEqual, ".._etc_passwd")
		So(SanitizeKey("équipe.v1"), ShouldEqual, "équipe.v1")
	})

	Convey("Given keys that sanitize to the same name", t, func() {
		ctx := context.Background()
		c, _ := newTestCache(t)
		c.Set(ctx, "a/b", 1)

		Convey("Then they share one entry", func() {
			v, ok := GetAs[int](ctx, c, "a:b", time.Hour)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
		})
	})
}

func TestBucket(t *testing.T) {
	Convey("Given cache keys", t, func() {
		So(Bucket("standings_PL"), ShouldEqual, "standings")
		So(Bucket("teammatches_57_x"), ShouldEqual, "teammatches")
		So(Bucket("plain"), ShouldEqual, "plain")
		So(Bucket(""), ShouldEqual, "none")
	})
}

func TestNewFileCache(t *testing.T) {
	Convey("Given an empty directory name", t, func() {
		_, err := NewFileCache("  ")
		So(err, ShouldWrap, ErrInvalidPath)
	})
}
