package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type SealRepo interface {
	GetAllocation(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error)
	GetAllocationForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error)
	SaveAllocation(ctx context.Context, tx *gorm.DB, allocation *types.SealAllocation) error
	GetActiveMark(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.EntityRef, sealType string, now time.Time) (*types.SealMark, error)
	CreateMark(ctx context.Context, tx *gorm.DB, mark *types.SealMark) (*types.SealMark, error)
	DeleteMark(ctx context.Context, tx *gorm.DB, markID uuid.UUID) error
	ListActiveByUserAndEntities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID, now time.Time) ([]*types.SealMark, error)
}

type sealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSealRepo(db *gorm.DB, baseLog *logger.Logger) SealRepo {
	return &sealRepo{db: db, log: baseLog.With("repo", "SealRepo")}
}

func (sr *sealRepo) GetAllocation(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error) {
	return sr.getAllocation(ctx, tx, userID, false)
}

// GetAllocationForUpdate takes a row lock so concurrent mark applications by
// the same user serialize on the allocation row.
func (sr *sealRepo) GetAllocationForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error) {
	return sr.getAllocation(ctx, tx, userID, true)
}

func (sr *sealRepo) getAllocation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, forUpdate bool) (*types.SealAllocation, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	query := transaction.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var allocation types.SealAllocation
	err := query.Where("user_id = ?", userID).First(&allocation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

func (sr *sealRepo) SaveAllocation(ctx context.Context, tx *gorm.DB, allocation *types.SealAllocation) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(allocation).Error
}

func (sr *sealRepo) GetActiveMark(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.EntityRef, sealType string, now time.Time) (*types.SealMark, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var mark types.SealMark
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ? AND type = ? AND expires_at > ?",
			userID, ref.Type, ref.ID, sealType, now).
		First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

func (sr *sealRepo) CreateMark(ctx context.Context, tx *gorm.DB, mark *types.SealMark) (*types.SealMark, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(mark).Error; err != nil {
		return nil, err
	}
	return mark, nil
}

func (sr *sealRepo) DeleteMark(ctx context.Context, tx *gorm.DB, markID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", markID).
		Delete(&types.SealMark{}).Error
}

func (sr *sealRepo) ListActiveByUserAndEntities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID, now time.Time) ([]*types.SealMark, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var marks []*types.SealMark
	if len(entityIDs) == 0 {
		return marks, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id IN ? AND expires_at > ?",
			userID, entityType, entityIDs, now).
		Find(&marks).Error; err != nil {
		return nil, err
	}
	return marks, nil
}
