package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agoradev/agora-backend/internal/cache"
	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
)

const (
	RankingKarma        = "karma"
	RankingPosts        = "posts"
	RankingComments     = "comments"
	RankingStreaks      = "streaks"
	RankingAchievements = "achievements"

	TimeframeAll   = "all"
	TimeframeToday = "today"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
)

var rankingKinds = []string{RankingKarma, RankingPosts, RankingComments, RankingStreaks, RankingAchievements}
var rankingTimeframes = []string{TimeframeAll, TimeframeToday, TimeframeWeek, TimeframeMonth}

// Pages and per-page sizes covered by the enumerated cache eviction. The key
// space stays small enough to walk without a wildcard scan.
var flushPerPages = []int{10, 25, 50, 100}

const flushMaxPage = 20

// snapPerPage rounds a requested page size up to the nearest enumerated one.
func snapPerPage(perPage int) int {
	for _, size := range flushPerPages {
		if perPage <= size {
			return size
		}
	}
	return RankingMaxPerPage
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type RankingPage struct {
	Users      []*repos.RankingRow `json:"users"`
	Pagination Pagination          `json:"pagination"`
}

type RankingService interface {
	GetRanking(ctx context.Context, kind, timeframe string, page, perPage int) (*RankingPage, error)
	// Flush evicts every enumerable ranking key, then warms the first page of
	// each (kind, timeframe) pair.
	Flush(ctx context.Context) error
}

type rankingService struct {
	log         *logger.Logger
	rankingRepo repos.RankingRepo
	karmaRepo   repos.KarmaRepo
	cache       cache.Cache
}

func NewRankingService(log *logger.Logger, rankingRepo repos.RankingRepo, karmaRepo repos.KarmaRepo, cacheClient cache.Cache) RankingService {
	return &rankingService{
		log:         log.With("service", "RankingService"),
		rankingRepo: rankingRepo,
		karmaRepo:   karmaRepo,
		cache:       cacheClient,
	}
}

func rankingKey(kind, timeframe string, perPage, page int) string {
	return fmt.Sprintf("rankings:%s:%s:%d:%d", kind, timeframe, perPage, page)
}

func rankingCountKey(kind, timeframe string) string {
	return fmt.Sprintf("rankings:count:%s:%s", kind, timeframe)
}

func validRankingKind(kind string) bool {
	for _, k := range rankingKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func validTimeframe(timeframe string) bool {
	for _, tf := range rankingTimeframes {
		if tf == timeframe {
			return true
		}
	}
	return false
}

// windowStart maps a timeframe onto the first day the day-granular stats
// aggregate over. Nil means no window (all time).
func windowStart(timeframe string, now time.Time) *time.Time {
	day := now.Truncate(24 * time.Hour)
	var since time.Time
	switch timeframe {
	case TimeframeToday:
		since = day
	case TimeframeWeek:
		since = day.AddDate(0, 0, -6)
	case TimeframeMonth:
		since = day.AddDate(0, 0, -29)
	default:
		return nil
	}
	return &since
}

func (rs *rankingService) GetRanking(ctx context.Context, kind, timeframe string, page, perPage int) (*RankingPage, error) {
	if !validRankingKind(kind) || !validTimeframe(timeframe) {
		return nil, ErrValidation
	}
	// Every key written here must be one Flush can evict, so page and
	// per-page are normalized onto the enumerated key space.
	if page < 1 {
		page = 1
	}
	if page > flushMaxPage {
		page = flushMaxPage
	}
	if perPage < 1 {
		perPage = RankingDefaultPerPage
	}
	perPage = snapPerPage(perPage)

	key := rankingKey(kind, timeframe, perPage, page)
	var cached RankingPage
	err := rs.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		rs.log.Warn("Ranking cache read failed", "key", key, "error", err)
	}

	result, err := rs.compute(ctx, kind, timeframe, page, perPage)
	if err != nil {
		return nil, err
	}
	if err := rs.cache.SetJSON(ctx, key, result, RankingTTL); err != nil {
		rs.log.Warn("Ranking cache write failed", "key", key, "error", err)
	}
	return result, nil
}

func (rs *rankingService) compute(ctx context.Context, kind, timeframe string, page, perPage int) (*RankingPage, error) {
	now := nowFunc()
	since := windowStart(timeframe, now)
	offset := (page - 1) * perPage

	if kind == RankingStreaks {
		return rs.computeStreaks(ctx, timeframe, since, page, perPage)
	}

	var rows []*repos.RankingRow
	var err error
	switch kind {
	case RankingKarma:
		if since == nil {
			rows, err = rs.rankingRepo.KarmaAllTime(ctx, nil, perPage, offset)
		} else {
			rows, err = rs.rankingRepo.KarmaSince(ctx, nil, *since, perPage, offset)
		}
	case RankingPosts:
		rows, err = rs.rankingRepo.PostsSince(ctx, nil, since, perPage, offset)
	case RankingComments:
		rows, err = rs.rankingRepo.CommentsSince(ctx, nil, since, perPage, offset)
	case RankingAchievements:
		rows, err = rs.rankingRepo.AchievementsSince(ctx, nil, since, perPage, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("compute %s ranking: %w", kind, err)
	}

	total, err := rs.totalCount(ctx, kind, timeframe, since)
	if err != nil {
		return nil, err
	}
	return &RankingPage{
		Users:      rows,
		Pagination: paginate(page, perPage, total),
	}, nil
}

// totalCount is cached under its own key: it needs a full aggregate and is
// invariant across pages.
func (rs *rankingService) totalCount(ctx context.Context, kind, timeframe string, since *time.Time) (int64, error) {
	key := rankingCountKey(kind, timeframe)
	var cached int64
	if err := rs.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	var total int64
	var err error
	switch kind {
	case RankingKarma:
		if since == nil {
			total, err = rs.rankingRepo.KarmaAllTimeCount(ctx, nil)
		} else {
			total, err = rs.rankingRepo.KarmaSinceCount(ctx, nil, *since)
		}
	case RankingPosts:
		total, err = rs.rankingRepo.PostsSinceCount(ctx, nil, since)
	case RankingComments:
		total, err = rs.rankingRepo.CommentsSinceCount(ctx, nil, since)
	case RankingAchievements:
		total, err = rs.rankingRepo.AchievementsSinceCount(ctx, nil, since)
	}
	if err != nil {
		return 0, fmt.Errorf("count %s ranking: %w", kind, err)
	}
	if err := rs.cache.SetJSON(ctx, key, total, RankingTTL); err != nil {
		rs.log.Warn("Ranking count cache write failed", "key", key, "error", err)
	}
	return total, nil
}

// computeStreaks ranks users by their longest run of consecutive days with
// karma earned inside the window. The day rows are grouped per user and the
// runs measured in memory. The all-time board scans at most StreakLookback
// of day rows so a cache miss never walks the whole stats table.
func (rs *rankingService) computeStreaks(ctx context.Context, timeframe string, since *time.Time, page, perPage int) (*RankingPage, error) {
	queryStart := nowFunc().UTC().Truncate(24 * time.Hour).Add(-StreakLookback)
	if since != nil {
		queryStart = *since
	}
	stats, err := rs.karmaRepo.DailyDaysSince(ctx, nil, queryStart)
	if err != nil {
		return nil, fmt.Errorf("daily karma days: %w", err)
	}

	days := map[uuid.UUID][]time.Time{}
	for _, stat := range stats {
		days[stat.UserID] = append(days[stat.UserID], stat.Day)
	}
	rows := make([]*repos.RankingRow, 0, len(days))
	for userID, userDays := range days {
		rows = append(rows, &repos.RankingRow{
			UserID: userID,
			Value:  int64(longestStreak(userDays)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].UserID.String() < rows[j].UserID.String()
	})

	total := int64(len(rows))
	start := (page - 1) * perPage
	if start > len(rows) {
		start = len(rows)
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	if err := rs.cache.SetJSON(ctx, rankingCountKey(RankingStreaks, timeframe), total, RankingTTL); err != nil {
		rs.log.Warn("Ranking count cache write failed", "kind", RankingStreaks, "error", err)
	}
	return &RankingPage{
		Users:      rows[start:end],
		Pagination: paginate(page, perPage, total),
	}, nil
}

// longestStreak counts the longest run of consecutive calendar days.
// Duplicates are tolerated.
func longestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		gap := days[i].Sub(days[i-1])
		switch {
		case gap == 0:
			continue
		case gap <= 24*time.Hour:
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func paginate(page, perPage int, total int64) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func (rs *rankingService) Flush(ctx context.Context) error {
	keys := enumerateRankingKeys()
	if err := rs.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("evict ranking keys: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, kind := range rankingKinds {
		for _, timeframe := range rankingTimeframes {
			kind, timeframe := kind, timeframe
			group.Go(func() error {
				_, err := rs.GetRanking(groupCtx, kind, timeframe, 1, RankingDefaultPerPage)
				return err
			})
		}
	}
	return group.Wait()
}

// enumerateRankingKeys re-derives the whole key space instead of scanning
// with a wildcard.
func enumerateRankingKeys() []string {
	var keys []string
	for _, kind := range rankingKinds {
		for _, timeframe := range rankingTimeframes {
			keys = append(keys, rankingCountKey(kind, timeframe))
			for _, perPage := range flushPerPages {
				for page := 1; page <= flushMaxPage; page++ {
					keys = append(keys, rankingKey(kind, timeframe, perPage, page))
				}
			}
		}
	}
	return keys
}
