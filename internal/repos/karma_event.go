package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type KarmaEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.KarmaEvent) (*types.KarmaEvent, error)
	ActiveAt(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.KarmaEvent, error)
}

type karmaEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKarmaEventRepo(db *gorm.DB, baseLog *logger.Logger) KarmaEventRepo {
	return &karmaEventRepo{db: db, log: baseLog.With("repo", "KarmaEventRepo")}
}

func (kr *karmaEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.KarmaEvent) (*types.KarmaEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (kr *karmaEventRepo) ActiveAt(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.KarmaEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = kr.db
	}
	var events []*types.KarmaEvent
	if err := transaction.WithContext(ctx).
		Where("is_active = true AND start_at <= ? AND end_at >= ?", now, now).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
