package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type RelationshipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, relationship *types.PostRelationship) (*types.PostRelationship, error)
	GetByID(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID) (*types.PostRelationship, error)
	Exists(ctx context.Context, tx *gorm.DB, postID, relatedPostID uuid.UUID, relType string) (bool, error)
	IncrementVoteCounts(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID, upDelta, downDelta int) error
}

type relationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) RelationshipRepo {
	return &relationshipRepo{db: db, log: baseLog.With("repo", "RelationshipRepo")}
}

func (rr *relationshipRepo) Create(ctx context.Context, tx *gorm.DB, relationship *types.PostRelationship) (*types.PostRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(relationship).Error; err != nil {
		return nil, err
	}
	return relationship, nil
}

func (rr *relationshipRepo) GetByID(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID) (*types.PostRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var relationship types.PostRelationship
	if err := transaction.WithContext(ctx).
		Where("id = ?", relationshipID).
		First(&relationship).Error; err != nil {
		return nil, err
	}
	return &relationship, nil
}

func (rr *relationshipRepo) Exists(ctx context.Context, tx *gorm.DB, postID, relatedPostID uuid.UUID, relType string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PostRelationship{}).
		Where("post_id = ? AND related_post_id = ? AND type = ?", postID, relatedPostID, relType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *relationshipRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID, upDelta, downDelta int) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.PostRelationship{}).
		Where("id = ?", relationshipID).
		UpdateColumns(map[string]interface{}{
			"upvotes_count":   gorm.Expr("upvotes_count + ?", upDelta),
			"downvotes_count": gorm.Expr("downvotes_count + ?", downDelta),
		}).Error
}
