package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// SealResult is the response shape for mark mutations.
type SealResult struct {
	AvailableSeals          int `json:"available_seals"`
	RecommendedSealsCount   int `json:"recommended_seals_count"`
	AdviseAgainstSealsCount int `json:"advise_against_seals_count"`
}

type SealService interface {
	ApplyMark(ctx context.Context, userID uuid.UUID, postID uuid.UUID, sealType string) (*SealResult, error)
	RemoveMark(ctx context.Context, userID uuid.UUID, postID uuid.UUID, sealType string) (*SealResult, error)
	// ReplenishAllocations resets every user's available seals to their current
	// karma level's weekly quota. Driven by the weekly cron.
	ReplenishAllocations(ctx context.Context) error
}

type sealService struct {
	db        *gorm.DB
	log       *logger.Logger
	sealRepo  repos.SealRepo
	postRepo  repos.PostRepo
	userRepo  repos.UserRepo
	levelRepo repos.KarmaLevelRepo
}

func NewSealService(db *gorm.DB, log *logger.Logger, sealRepo repos.SealRepo, postRepo repos.PostRepo, userRepo repos.UserRepo, levelRepo repos.KarmaLevelRepo) SealService {
	return &sealService{
		db:        db,
		log:       log.With("service", "SealService"),
		sealRepo:  sealRepo,
		postRepo:  postRepo,
		userRepo:  userRepo,
		levelRepo: levelRepo,
	}
}

func validSealType(sealType string) bool {
	return sealType == types.SealTypeRecommended || sealType == types.SealTypeAdviseAgainst
}

func (ss *sealService) ApplyMark(ctx context.Context, userID uuid.UUID, postID uuid.UUID, sealType string) (*SealResult, error) {
	if !validSealType(sealType) {
		return nil, ErrValidation
	}
	now := nowFunc()
	ref := types.EntityRef{Type: types.EntityPost, ID: postID}

	result := &SealResult{}
	err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		post, err := ss.postRepo.GetByID(ctx, tx, postID)
		if err != nil {
			return notFoundOr(err)
		}
		if post.UserID == userID {
			return ErrCannotMarkOwnContent
		}

		allocation, err := ss.sealRepo.GetAllocationForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load seal allocation: %w", err)
		}
		if allocation == nil || allocation.AvailableSeals <= 0 {
			return ErrNoSealsAvailable
		}

		existing, err := ss.sealRepo.GetActiveMark(ctx, tx, userID, ref, sealType, now)
		if err != nil {
			return fmt.Errorf("load existing mark: %w", err)
		}
		if existing != nil {
			return ErrAlreadyMarked
		}

		mark := &types.SealMark{
			UserID:     userID,
			EntityType: ref.Type,
			EntityID:   ref.ID,
			Type:       sealType,
			ExpiresAt:  now.Add(SealExpiry),
		}
		if _, err := ss.sealRepo.CreateMark(ctx, tx, mark); err != nil {
			return fmt.Errorf("create seal mark: %w", err)
		}

		allocation.AvailableSeals--
		allocation.TotalUsed++
		if err := ss.sealRepo.SaveAllocation(ctx, tx, allocation); err != nil {
			return fmt.Errorf("save seal allocation: %w", err)
		}
		if err := ss.postRepo.IncrementSealCount(ctx, tx, postID, sealType, 1); err != nil {
			return fmt.Errorf("increment seal count: %w", err)
		}

		result.AvailableSeals = allocation.AvailableSeals
		result.RecommendedSealsCount = post.RecommendedSealsCount
		result.AdviseAgainstSealsCount = post.AdviseAgainstSealsCount
		if sealType == types.SealTypeRecommended {
			result.RecommendedSealsCount++
		} else {
			result.AdviseAgainstSealsCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ss *sealService) RemoveMark(ctx context.Context, userID uuid.UUID, postID uuid.UUID, sealType string) (*SealResult, error) {
	if !validSealType(sealType) {
		return nil, ErrValidation
	}
	now := nowFunc()
	ref := types.EntityRef{Type: types.EntityPost, ID: postID}

	result := &SealResult{}
	err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		post, err := ss.postRepo.GetByID(ctx, tx, postID)
		if err != nil {
			return notFoundOr(err)
		}

		mark, err := ss.sealRepo.GetActiveMark(ctx, tx, userID, ref, sealType, now)
		if err != nil {
			return fmt.Errorf("load existing mark: %w", err)
		}
		if mark == nil {
			return ErrMarkNotFound
		}

		allocation, err := ss.sealRepo.GetAllocationForUpdate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load seal allocation: %w", err)
		}
		if allocation == nil {
			allocation = &types.SealAllocation{UserID: userID}
		}

		if err := ss.sealRepo.DeleteMark(ctx, tx, mark.ID); err != nil {
			return fmt.Errorf("delete seal mark: %w", err)
		}
		allocation.AvailableSeals++
		if allocation.TotalUsed > 0 {
			allocation.TotalUsed--
		}
		if err := ss.sealRepo.SaveAllocation(ctx, tx, allocation); err != nil {
			return fmt.Errorf("save seal allocation: %w", err)
		}
		if err := ss.postRepo.IncrementSealCount(ctx, tx, postID, sealType, -1); err != nil {
			return fmt.Errorf("decrement seal count: %w", err)
		}

		result.AvailableSeals = allocation.AvailableSeals
		result.RecommendedSealsCount = post.RecommendedSealsCount
		result.AdviseAgainstSealsCount = post.AdviseAgainstSealsCount
		if sealType == types.SealTypeRecommended {
			result.RecommendedSealsCount--
		} else {
			result.AdviseAgainstSealsCount--
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ss *sealService) ReplenishAllocations(ctx context.Context) error {
	now := nowFunc()
	levels, err := ss.levelRepo.ListOrdered(ctx, nil)
	if err != nil {
		return fmt.Errorf("list karma levels: %w", err)
	}

	const batchSize = 500
	for offset := 0; ; offset += batchSize {
		ids, err := ss.userRepo.ListIDs(ctx, nil, batchSize, offset)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		for _, userID := range ids {
			err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
				user, err := ss.userRepo.GetByID(ctx, tx, userID)
				if err != nil {
					return err
				}
				level, _ := levelFor(levels, user.KarmaPoints)
				quota := 0
				if level != nil {
					quota = level.SealsPerWeek
				}
				allocation, err := ss.sealRepo.GetAllocationForUpdate(ctx, tx, userID)
				if err != nil {
					return err
				}
				if allocation == nil {
					allocation = &types.SealAllocation{UserID: userID}
				}
				allocation.AvailableSeals = quota
				allocation.TotalEarned += quota
				allocation.LastAwardedAt = &now
				return ss.sealRepo.SaveAllocation(ctx, tx, allocation)
			})
			if err != nil {
				ss.log.Warn("Seal replenishment failed for user", "user_id", userID, "error", err)
			}
		}
	}
}
