package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
)

// RankingRow is one leaderboard entry as produced by the aggregation queries.
type RankingRow struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	KarmaPoints int       `json:"karma_points"`
	Value       int64     `json:"value"`
}

// eligibleUsers filters to non-guest users with at least one recorded
// interaction so zero-activity accounts stay off the leaderboards.
const eligibleUsers = `users.is_guest = false AND users.deleted_at IS NULL AND ` +
	`(users.posts_count > 0 OR users.comments_count > 0 OR ` +
	`EXISTS (SELECT 1 FROM votes WHERE votes.voter_id = users.id))`

type RankingRepo interface {
	KarmaAllTime(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*RankingRow, error)
	KarmaAllTimeCount(ctx context.Context, tx *gorm.DB) (int64, error)
	KarmaSince(ctx context.Context, tx *gorm.DB, since time.Time, limit, offset int) ([]*RankingRow, error)
	KarmaSinceCount(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
	PostsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error)
	PostsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error)
	CommentsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error)
	CommentsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error)
	AchievementsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error)
	AchievementsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error)
}

type rankingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRankingRepo(db *gorm.DB, baseLog *logger.Logger) RankingRepo {
	return &rankingRepo{db: db, log: baseLog.With("repo", "RankingRepo")}
}

func (rr *rankingRepo) session(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *rankingRepo) KarmaAllTime(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*RankingRow, error) {
	var rows []*RankingRow
	err := rr.session(tx).WithContext(ctx).
		Table("users").
		Select("users.id as user_id, users.username, users.karma_points, cast(users.karma_points as bigint) as value").
		Where(eligibleUsers).
		Order("value desc, users.created_at asc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (rr *rankingRepo) KarmaAllTimeCount(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := rr.session(tx).WithContext(ctx).
		Table("users").
		Where(eligibleUsers).
		Count(&count).Error
	return count, err
}

// KarmaSince ranks by the daily stat aggregate, not live karma_points, so the
// window ranking stays stable while all-time karma keeps moving.
func (rr *rankingRepo) KarmaSince(ctx context.Context, tx *gorm.DB, since time.Time, limit, offset int) ([]*RankingRow, error) {
	var rows []*RankingRow
	err := rr.session(tx).WithContext(ctx).
		Table("daily_karma_stats").
		Select("users.id as user_id, users.username, users.karma_points, sum(daily_karma_stats.karma_earned) as value").
		Joins("JOIN users ON users.id = daily_karma_stats.user_id").
		Where("daily_karma_stats.day >= ?", since.Truncate(24*time.Hour)).
		Where(eligibleUsers).
		Group("users.id, users.username, users.karma_points").
		Order("value desc, users.created_at asc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (rr *rankingRepo) KarmaSinceCount(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := rr.session(tx).WithContext(ctx).
		Table("daily_karma_stats").
		Joins("JOIN users ON users.id = daily_karma_stats.user_id").
		Where("daily_karma_stats.day >= ?", since.Truncate(24*time.Hour)).
		Where(eligibleUsers).
		Distinct("users.id").
		Count(&count).Error
	return count, err
}

func (rr *rankingRepo) PostsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("posts").
		Select("users.id as user_id, users.username, users.karma_points, count(posts.id) as value").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.deleted_at IS NULL AND posts.status = 'published'").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("posts.created_at >= ?", *since)
	}
	var rows []*RankingRow
	err := query.
		Group("users.id, users.username, users.karma_points").
		Order("value desc, users.created_at asc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (rr *rankingRepo) PostsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("posts").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.deleted_at IS NULL AND posts.status = 'published'").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("posts.created_at >= ?", *since)
	}
	var count int64
	err := query.Distinct("users.id").Count(&count).Error
	return count, err
}

func (rr *rankingRepo) CommentsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("comments").
		Select("users.id as user_id, users.username, users.karma_points, count(comments.id) as value").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.deleted_at IS NULL AND comments.status = 'visible'").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("comments.created_at >= ?", *since)
	}
	var rows []*RankingRow
	err := query.
		Group("users.id, users.username, users.karma_points").
		Order("value desc, users.created_at asc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (rr *rankingRepo) CommentsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("comments").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.deleted_at IS NULL AND comments.status = 'visible'").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("comments.created_at >= ?", *since)
	}
	var count int64
	err := query.Distinct("users.id").Count(&count).Error
	return count, err
}

func (rr *rankingRepo) AchievementsSince(ctx context.Context, tx *gorm.DB, since *time.Time, limit, offset int) ([]*RankingRow, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("user_achievements").
		Select("users.id as user_id, users.username, users.karma_points, count(user_achievements.id) as value").
		Joins("JOIN users ON users.id = user_achievements.user_id").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("user_achievements.awarded_at >= ?", *since)
	}
	var rows []*RankingRow
	err := query.
		Group("users.id, users.username, users.karma_points").
		Order("value desc, users.created_at asc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (rr *rankingRepo) AchievementsSinceCount(ctx context.Context, tx *gorm.DB, since *time.Time) (int64, error) {
	query := rr.session(tx).WithContext(ctx).
		Table("user_achievements").
		Joins("JOIN users ON users.id = user_achievements.user_id").
		Where(eligibleUsers)
	if since != nil {
		query = query.Where("user_achievements.awarded_at >= ?", *since)
	}
	var count int64
	err := query.Distinct("users.id").Count(&count).Error
	return count, err
}
