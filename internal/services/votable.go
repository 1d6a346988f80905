package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// votable is the resolved view of a vote/seal target: just enough to check
// ownership and age without caring which content variant it is.
type votable struct {
	ref       types.EntityRef
	ownerID   uuid.UUID
	createdAt time.Time
	// windowAnchor is the creation time the voting window is measured from.
	// Comments inherit their post's window.
	windowAnchor time.Time
	// window is zero when the entity has no voting age limit.
	window time.Duration
}

func (v *votable) windowClosed(now time.Time) bool {
	return v.window > 0 && now.Sub(v.windowAnchor) > v.window
}

type votableResolver struct {
	postRepo         repos.PostRepo
	commentRepo      repos.CommentRepo
	relationshipRepo repos.RelationshipRepo
}

func (r *votableResolver) resolve(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (*votable, error) {
	switch ref.Type {
	case types.EntityPost:
		post, err := r.postRepo.GetByID(ctx, tx, ref.ID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		return &votable{
			ref:          ref,
			ownerID:      post.UserID,
			createdAt:    post.CreatedAt,
			windowAnchor: post.CreatedAt,
			window:       PostVoteWindow,
		}, nil
	case types.EntityComment:
		comment, err := r.commentRepo.GetByID(ctx, tx, ref.ID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		post, err := r.postRepo.GetByID(ctx, tx, comment.PostID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		return &votable{
			ref:          ref,
			ownerID:      comment.UserID,
			createdAt:    comment.CreatedAt,
			windowAnchor: post.CreatedAt,
			window:       PostVoteWindow,
		}, nil
	case types.EntityRelationship:
		relationship, err := r.relationshipRepo.GetByID(ctx, tx, ref.ID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		return &votable{
			ref:       ref,
			ownerID:   relationship.UserID,
			createdAt: relationship.CreatedAt,
		}, nil
	default:
		return nil, ErrValidation
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
