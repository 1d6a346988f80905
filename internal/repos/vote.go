package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

// VoteStats is the aggregate shape returned alongside comment vote mutations.
type VoteStats struct {
	Positive int64            `json:"positive"`
	Negative int64            `json:"negative"`
	ByTag    map[string]int64 `json:"by_tag"`
}

type VoteRepo interface {
	GetByVoterAndEntity(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, ref types.EntityRef) (*types.Vote, error)
	ListByVoterAndEntities(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID) ([]*types.Vote, error)
	Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) (*types.Vote, error)
	Save(ctx context.Context, tx *gorm.DB, vote *types.Vote) error
	Delete(ctx context.Context, tx *gorm.DB, voteID uuid.UUID) error
	StatsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (*VoteStats, error)
	HasAnyByVoter(ctx context.Context, tx *gorm.DB, voterID uuid.UUID) (bool, error)
	CountsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (up int64, down int64, err error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{db: db, log: baseLog.With("repo", "VoteRepo")}
}

func (vr *voteRepo) GetByVoterAndEntity(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, ref types.EntityRef) (*types.Vote, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var vote types.Vote
	err := transaction.WithContext(ctx).
		Where("voter_id = ? AND entity_type = ? AND entity_id = ?", voterID, ref.Type, ref.ID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (vr *voteRepo) ListByVoterAndEntities(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID) ([]*types.Vote, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var votes []*types.Vote
	if len(entityIDs) == 0 {
		return votes, nil
	}
	if err := transaction.WithContext(ctx).
		Where("voter_id = ? AND entity_type = ? AND entity_id IN ?", voterID, entityType, entityIDs).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

func (vr *voteRepo) Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) (*types.Vote, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if err := transaction.WithContext(ctx).Create(vote).Error; err != nil {
		return nil, err
	}
	return vote, nil
}

func (vr *voteRepo) Save(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Save(vote).Error
}

func (vr *voteRepo) Delete(ctx context.Context, tx *gorm.DB, voteID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", voteID).
		Delete(&types.Vote{}).Error
}

func (vr *voteRepo) StatsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (*VoteStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	stats := &VoteStats{ByTag: map[string]int64{}}

	type row struct {
		Value int
		Tag   string
		N     int64
	}
	var rows []row
	if err := transaction.WithContext(ctx).
		Model(&types.Vote{}).
		Select("value, tag, count(*) as n").
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Group("value, tag").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.Value > 0 {
			stats.Positive += r.N
		} else {
			stats.Negative += r.N
		}
		if r.Tag != "" {
			stats.ByTag[r.Tag] += r.N
		}
	}
	return stats, nil
}

func (vr *voteRepo) HasAnyByVoter(ctx context.Context, tx *gorm.DB, voterID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Vote{}).
		Where("voter_id = ?", voterID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (vr *voteRepo) CountsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var up, down int64
	if err := transaction.WithContext(ctx).
		Model(&types.Vote{}).
		Where("entity_type = ? AND entity_id = ? AND value > 0", ref.Type, ref.ID).
		Count(&up).Error; err != nil {
		return 0, 0, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Vote{}).
		Where("entity_type = ? AND entity_id = ? AND value < 0", ref.Type, ref.ID).
		Count(&down).Error; err != nil {
		return 0, 0, err
	}
	return up, down, nil
}
