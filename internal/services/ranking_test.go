package services

import (
	"testing"
	"time"
)

func TestWindowStart_PerTimeframe(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	if since := windowStart(TimeframeAll, now); since != nil {
		t.Fatalf("all time should have no window, got %v", since)
	}
	if since := windowStart(TimeframeToday, now); since == nil || !since.Equal(day) {
		t.Fatalf("today window should start at midnight, got %v", since)
	}
	if since := windowStart(TimeframeWeek, now); since == nil || !since.Equal(day.AddDate(0, 0, -6)) {
		t.Fatalf("week window should cover 7 days inclusive, got %v", since)
	}
	if since := windowStart(TimeframeMonth, now); since == nil || !since.Equal(day.AddDate(0, 0, -29)) {
		t.Fatalf("month window should cover 30 days inclusive, got %v", since)
	}
}

func TestLongestStreak_ConsecutiveRuns(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	}

	cases := []struct {
		name string
		days []time.Time
		want int
	}{
		{"empty", nil, 0},
		{"single day", []time.Time{day(0)}, 1},
		{"three consecutive", []time.Time{day(0), day(1), day(2)}, 3},
		{"gap resets the run", []time.Time{day(0), day(1), day(5), day(6), day(7)}, 3},
		{"unsorted input", []time.Time{day(2), day(0), day(1)}, 3},
		{"duplicates tolerated", []time.Time{day(0), day(0), day(1)}, 2},
		{"isolated days", []time.Time{day(0), day(3), day(9)}, 1},
	}
	for _, c := range cases {
		if got := longestStreak(c.days); got != c.want {
			t.Fatalf("%s: longestStreak=%d want %d", c.name, got, c.want)
		}
	}
}

func TestPaginate_RoundsTotalPagesUp(t *testing.T) {
	p := paginate(2, 25, 51)
	if p.Page != 2 || p.PerPage != 25 || p.Total != 51 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if p.TotalPages != 3 {
		t.Fatalf("51 rows at 25 per page is 3 pages, got %d", p.TotalPages)
	}
	if paginate(1, 25, 0).TotalPages != 0 {
		t.Fatalf("empty result should have zero pages")
	}
}

func TestEnumerateRankingKeys_CoversFullKeySpace(t *testing.T) {
	keys := enumerateRankingKeys()

	// 5 kinds x 4 timeframes x (1 count key + 4 per-page sizes x 20 pages).
	want := 5 * 4 * (1 + 4*20)
	if len(keys) != want {
		t.Fatalf("expected %d keys, got %d", want, len(keys))
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
	}
	for _, key := range []string{
		"rankings:karma:all:25:1",
		"rankings:streaks:week:100:20",
		"rankings:count:achievements:month",
	} {
		if _, ok := seen[key]; !ok {
			t.Fatalf("expected key %q in the enumerated space", key)
		}
	}
}

func TestValidRankingKindAndTimeframe(t *testing.T) {
	for _, kind := range rankingKinds {
		if !validRankingKind(kind) {
			t.Fatalf("kind %q should be valid", kind)
		}
	}
	if validRankingKind("reputation") {
		t.Fatalf("unknown kind accepted")
	}
	for _, timeframe := range rankingTimeframes {
		if !validTimeframe(timeframe) {
			t.Fatalf("timeframe %q should be valid", timeframe)
		}
	}
	if validTimeframe("year") {
		t.Fatalf("unknown timeframe accepted")
	}
}
