package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type KarmaLevelRepo interface {
	ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.KarmaLevel, error)
	Upsert(ctx context.Context, tx *gorm.DB, level *types.KarmaLevel) error
}

type karmaLevelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKarmaLevelRepo(db *gorm.DB, baseLog *logger.Logger) KarmaLevelRepo {
	return &karmaLevelRepo{db: db, log: baseLog.With("repo", "KarmaLevelRepo")}
}

func (kr *karmaLevelRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.KarmaLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var levels []*types.KarmaLevel
	if err := transaction.WithContext(ctx).
		Order("required_karma asc").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (kr *karmaLevelRepo) Upsert(ctx context.Context, tx *gorm.DB, level *types.KarmaLevel) error {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"badge", "required_karma", "benefits", "seals_per_week",
			}),
		}).
		Create(level).Error
}
