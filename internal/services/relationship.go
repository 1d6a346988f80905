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

type RelationshipService interface {
	Create(ctx context.Context, userID uuid.UUID, postID, relatedPostID uuid.UUID, relType string) (*types.PostRelationship, error)
}

type relationshipService struct {
	db           *gorm.DB
	log          *logger.Logger
	relationRepo repos.RelationshipRepo
	postRepo     repos.PostRepo
}

func NewRelationshipService(db *gorm.DB, log *logger.Logger, relationRepo repos.RelationshipRepo, postRepo repos.PostRepo) RelationshipService {
	return &relationshipService{
		db:           db,
		log:          log.With("service", "RelationshipService"),
		relationRepo: relationRepo,
		postRepo:     postRepo,
	}
}

func (rs *relationshipService) Create(ctx context.Context, userID uuid.UUID, postID, relatedPostID uuid.UUID, relType string) (*types.PostRelationship, error) {
	if _, ok := types.RelationshipTypes[relType]; !ok {
		return nil, ErrValidation
	}
	if postID == relatedPostID {
		return nil, ErrValidation
	}

	var relationship *types.PostRelationship
	err := runInTx(ctx, rs.db, func(tx *gorm.DB) error {
		if _, err := rs.postRepo.GetByID(ctx, tx, postID); err != nil {
			return notFoundOr(err)
		}
		if _, err := rs.postRepo.GetByID(ctx, tx, relatedPostID); err != nil {
			return notFoundOr(err)
		}
		exists, err := rs.relationRepo.Exists(ctx, tx, postID, relatedPostID, relType)
		if err != nil {
			return fmt.Errorf("check relationship: %w", err)
		}
		if exists {
			return ErrAlreadyExists
		}
		relationship = &types.PostRelationship{
			PostID:        postID,
			RelatedPostID: relatedPostID,
			UserID:        userID,
			Type:          relType,
		}
		_, err = rs.relationRepo.Create(ctx, tx, relationship)
		return err
	})
	if err != nil {
		return nil, err
	}
	return relationship, nil
}
