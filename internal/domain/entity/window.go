package entity

import (
	"sort"
	"time"

	"github.com/okian/footstats/internal/domain/model"
)

// Window selects the matches around now: the last n kicked off at or before
// now followed by the first n strictly after it, in kickoff order. Records
// with an unparsable kickoff are ignored. At most 2n records are returned.
func Window(records []model.MatchRecord, now time.Time, n int) []model.MatchRecord {
	if n <= 0 {
		return nil
	}
	valid := make([]dated[model.MatchRecord], 0, len(records))
	for _, rec := range records {
		at, err := ParseKickoff(rec.UTCDate)
		if err != nil {
			continue
		}
		valid = append(valid, dated[model.MatchRecord]{at: at, v: rec})
	}
	return around(valid, now, n)
}

// WindowMatches is Window over built matches, so rows rejected while
// building never take a slot.
func WindowMatches(matches []*Match, now time.Time, n int) []*Match {
	if n <= 0 {
		return nil
	}
	valid := make([]dated[*Match], 0, len(matches))
	for _, m := range matches {
		if m == nil {
			continue
		}
		valid = append(valid, dated[*Match]{at: m.Kickoff, v: m})
	}
	return around(valid, now, n)
}

type dated[T any] struct {
	at time.Time
	v  T
}

func around[T any](valid []dated[T], now time.Time, n int) []T {
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].at.Before(valid[j].at) })

	// first index strictly after now
	split := sort.Search(len(valid), func(i int) bool { return valid[i].at.After(now) })

	start := split - n
	if start < 0 {
		start = 0
	}
	end := split + n
	if end > len(valid) {
		end = len(valid)
	}

	out := make([]T, 0, end-start)
	for _, d := range valid[start:end] {
		out = append(out, d.v)
	}
	return out
}
