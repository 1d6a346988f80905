package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/notify"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

type FrontpageService interface {
	// MaybePromote runs the competitive threshold check for a post after a
	// qualifying vote. Returns true when the post was promoted in this call.
	MaybePromote(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (bool, error)
	// Occupants lists the posts currently on the frontpage.
	Occupants(ctx context.Context) ([]*types.Post, error)
}

type frontpageService struct {
	db       *gorm.DB
	log      *logger.Logger
	postRepo repos.PostRepo
	bus      notify.Bus
}

func NewFrontpageService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo, bus notify.Bus) FrontpageService {
	return &frontpageService{
		db:       db,
		log:      log.With("service", "FrontpageService"),
		postRepo: postRepo,
		bus:      bus,
	}
}

func (fs *frontpageService) MaybePromote(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (bool, error) {
	now := nowFunc()

	post, err := fs.postRepo.GetByID(ctx, tx, postID)
	if err != nil {
		return false, notFoundOr(err)
	}
	if post.Status != types.PostStatusPublished {
		return false, nil
	}
	// Re-promotion is a no-op once the timestamp is set.
	if post.FrontpageAt != nil {
		return false, nil
	}
	if post.UpvotesCount < FrontpageMinUpvotes {
		return false, nil
	}

	occupants, err := fs.postRepo.FrontpageOccupants(ctx, tx, now.Add(-FrontpageWindow))
	if err != nil {
		return false, fmt.Errorf("frontpage occupants: %w", err)
	}
	tallies := make([]int, 0, len(occupants))
	for _, occupant := range occupants {
		tallies = append(tallies, occupant.UpvotesCount)
	}
	// Occupancy can transiently exceed capacity when several candidates clear
	// the minimum before the 24h cutoff evicts anyone. Accepted behavior.
	if !shouldPromote(post.UpvotesCount, tallies, FrontpageCapacity) {
		return false, nil
	}

	if err := fs.postRepo.SetFrontpageAt(ctx, tx, post.ID, now); err != nil {
		return false, fmt.Errorf("set frontpage_at: %w", err)
	}
	if err := notify.Emit(ctx, fs.bus, notify.Event{
		Kind:     notify.EventFrontpagePromoted,
		UserID:   post.UserID,
		EntityID: post.ID,
	}); err != nil {
		fs.log.Warn("Failed to publish frontpage event", "post_id", post.ID, "error", err)
	}
	return true, nil
}

func (fs *frontpageService) Occupants(ctx context.Context) ([]*types.Post, error) {
	return fs.postRepo.FrontpageOccupants(ctx, nil, nowFunc().Add(-FrontpageWindow))
}
