package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error)
	GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error)
	IncrementVoteCounts(ctx context.Context, tx *gorm.DB, postID uuid.UUID, upDelta, downDelta int) error
	IncrementSealCount(ctx context.Context, tx *gorm.DB, postID uuid.UUID, sealType string, delta int) error
	SetFrontpageAt(ctx context.Context, tx *gorm.DB, postID uuid.UUID, at time.Time) error
	FrontpageOccupants(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Post, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (pr *postRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var post types.Post
	if err := transaction.WithContext(ctx).
		Where("id = ?", postID).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (pr *postRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, postID uuid.UUID, upDelta, downDelta int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"upvotes_count":   gorm.Expr("upvotes_count + ?", upDelta),
			"downvotes_count": gorm.Expr("downvotes_count + ?", downDelta),
		}).Error
}

func (pr *postRepo) IncrementSealCount(ctx context.Context, tx *gorm.DB, postID uuid.UUID, sealType string, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	column := "recommended_seals_count"
	if sealType == types.SealTypeAdviseAgainst {
		column = "advise_against_seals_count"
	}
	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// SetFrontpageAt only writes when the slot is still unset, so a promotion is
// irreversible for that timestamp.
func (pr *postRepo) SetFrontpageAt(ctx context.Context, tx *gorm.DB, postID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Post{}).
		Where("id = ? AND frontpage_at IS NULL", postID).
		UpdateColumn("frontpage_at", at).Error
}

func (pr *postRepo) FrontpageOccupants(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var posts []*types.Post
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.PostStatusPublished).
		Where("frontpage_at IS NOT NULL AND frontpage_at > ?", since).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
