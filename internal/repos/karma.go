package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type KarmaRepo interface {
	InsertHistory(ctx context.Context, tx *gorm.DB, entry *types.KarmaHistory) error
	RecentHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.KarmaHistory, error)
	SumHistoryForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	AddDailyStat(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time, amount int) error
	SumDailySince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int, error)
	DailyDaysSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.DailyKarmaStat, error)
}

type karmaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKarmaRepo(db *gorm.DB, baseLog *logger.Logger) KarmaRepo {
	return &karmaRepo{db: db, log: baseLog.With("repo", "KarmaRepo")}
}

func (kr *karmaRepo) InsertHistory(ctx context.Context, tx *gorm.DB, entry *types.KarmaHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (kr *karmaRepo) RecentHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.KarmaHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var entries []*types.KarmaHistory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (kr *karmaRepo) SumHistoryForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.KarmaHistory{}).
		Where("user_id = ?", userID).
		Select("coalesce(sum(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// AddDailyStat upserts the (user, day) row, folding the amount in additively.
func (kr *karmaRepo) AddDailyStat(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day time.Time, amount int) error {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	day = day.Truncate(24 * time.Hour)
	stat := types.DailyKarmaStat{
		UserID:      userID,
		Day:         day,
		KarmaEarned: amount,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"karma_earned": gorm.Expr("daily_karma_stats.karma_earned + ?", amount),
			}),
		}).
		Create(&stat).Error
}

func (kr *karmaRepo) SumDailySince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.DailyKarmaStat{}).
		Where("user_id = ? AND day >= ?", userID, since.Truncate(24*time.Hour)).
		Select("coalesce(sum(karma_earned), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (kr *karmaRepo) DailyDaysSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.DailyKarmaStat, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var stats []*types.DailyKarmaStat
	if err := transaction.WithContext(ctx).
		Where("day >= ? AND karma_earned > 0", since.Truncate(24*time.Hour)).
		Order("user_id, day asc").
		Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
