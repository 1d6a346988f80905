package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error)
	GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error)
	ListByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error)
	IncrementVoteCounts(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, upDelta, downDelta int) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (cr *commentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var comment types.Comment
	if err := transaction.WithContext(ctx).
		Where("id = ?", commentID).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost loads the full flat comment set for a post in one query, author
// preloaded, so the tree can be linked in memory without per-node fetches.
func (cr *commentRepo) ListByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var comments []*types.Comment
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (cr *commentRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, upDelta, downDelta int) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Comment{}).
		Where("id = ?", commentID).
		UpdateColumns(map[string]interface{}{
			"upvotes_count":   gorm.Expr("upvotes_count + ?", upDelta),
			"downvotes_count": gorm.Expr("downvotes_count + ?", downDelta),
		}).Error
}
