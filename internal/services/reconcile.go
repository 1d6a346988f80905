package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// ReconcileService recomputes denormalized counters from their source-of-truth
// tables and corrects drift. Run nightly and on admin request.
type ReconcileService interface {
	ReconcileUserKarma(ctx context.Context) (corrected int, err error)
	ReconcilePostVoteCounts(ctx context.Context) (corrected int, err error)
}

type reconcileService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	karmaRepo repos.KarmaRepo
	voteRepo  repos.VoteRepo
	postRepo  repos.PostRepo
}

func NewReconcileService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, karmaRepo repos.KarmaRepo, voteRepo repos.VoteRepo, postRepo repos.PostRepo) ReconcileService {
	return &reconcileService{
		db:        db,
		log:       log.With("service", "ReconcileService"),
		userRepo:  userRepo,
		karmaRepo: karmaRepo,
		voteRepo:  voteRepo,
		postRepo:  postRepo,
	}
}

func (rs *reconcileService) ReconcileUserKarma(ctx context.Context) (int, error) {
	corrected := 0
	const batchSize = 500
	for offset := 0; ; offset += batchSize {
		ids, err := rs.userRepo.ListIDs(ctx, nil, batchSize, offset)
		if err != nil {
			return corrected, fmt.Errorf("list users: %w", err)
		}
		if len(ids) == 0 {
			return corrected, nil
		}
		for _, userID := range ids {
			err := runInTx(ctx, rs.db, func(tx *gorm.DB) error {
				user, err := rs.userRepo.GetByID(ctx, tx, userID)
				if err != nil {
					return err
				}
				total, err := rs.karmaRepo.SumHistoryForUser(ctx, tx, userID)
				if err != nil {
					return err
				}
				if total == user.KarmaPoints {
					return nil
				}
				rs.log.Warn("Karma drift corrected", "user_id", userID, "cached", user.KarmaPoints, "ledger", total)
				corrected++
				return rs.userRepo.SetKarma(ctx, tx, userID, total)
			})
			if err != nil {
				rs.log.Warn("Karma reconcile failed for user", "user_id", userID, "error", err)
			}
		}
	}
}

func (rs *reconcileService) ReconcilePostVoteCounts(ctx context.Context) (int, error) {
	corrected := 0
	var posts []*types.Post
	if err := rs.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}
	for _, post := range posts {
		ref := types.EntityRef{Type: types.EntityPost, ID: post.ID}
		up, down, err := rs.voteRepo.CountsForEntity(ctx, nil, ref)
		if err != nil {
			rs.log.Warn("Vote count reconcile failed for post", "post_id", post.ID, "error", err)
			continue
		}
		if int(up) == post.UpvotesCount && int(down) == post.DownvotesCount {
			continue
		}
		corrected++
		err = rs.db.WithContext(ctx).
			Model(&types.Post{}).
			Where("id = ?", post.ID).
			UpdateColumns(map[string]interface{}{
				"upvotes_count":   up,
				"downvotes_count": down,
			}).Error
		if err != nil {
			rs.log.Warn("Vote count update failed for post", "post_id", post.ID, "error", err)
		}
	}
	return corrected, nil
}
