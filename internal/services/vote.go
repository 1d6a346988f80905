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

// CastVoteResult reports the accepted vote plus the aggregates the HTTP
// surface returns.
type CastVoteResult struct {
	Vote             *types.Vote
	PriorValue       *int
	Stats            *repos.VoteStats
	FrontpageReached bool
}

type RemoveVoteResult struct {
	Removed bool
	Stats   *repos.VoteStats
}

type VoteService interface {
	CastVote(ctx context.Context, voterID uuid.UUID, ref types.EntityRef, value int, tag string) (*CastVoteResult, error)
	RemoveVote(ctx context.Context, voterID uuid.UUID, ref types.EntityRef) (*RemoveVoteResult, error)
}

type voteService struct {
	db           *gorm.DB
	log          *logger.Logger
	voteRepo     repos.VoteRepo
	postRepo     repos.PostRepo
	commentRepo  repos.CommentRepo
	relationRepo repos.RelationshipRepo
	karmaService KarmaService
	frontpage    FrontpageService
	bus          notify.Bus
	resolver     *votableResolver
}

func NewVoteService(db *gorm.DB, log *logger.Logger, voteRepo repos.VoteRepo, postRepo repos.PostRepo, commentRepo repos.CommentRepo, relationRepo repos.RelationshipRepo, karmaService KarmaService, frontpage FrontpageService, bus notify.Bus) VoteService {
	return &voteService{
		db:           db,
		log:          log.With("service", "VoteService"),
		voteRepo:     voteRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		relationRepo: relationRepo,
		karmaService: karmaService,
		frontpage:    frontpage,
		bus:          bus,
		resolver: &votableResolver{
			postRepo:         postRepo,
			commentRepo:      commentRepo,
			relationshipRepo: relationRepo,
		},
	}
}

func (vs *voteService) CastVote(ctx context.Context, voterID uuid.UUID, ref types.EntityRef, value int, tag string) (*CastVoteResult, error) {
	if value != 1 && value != -1 {
		return nil, ErrVoteValue
	}
	tag, err := normalizeVoteTag(ref.Type, value, tag)
	if err != nil {
		return nil, err
	}

	result := &CastVoteResult{}
	// Level-up and frontpage events raised inside the transaction are held
	// back until it commits; a rollback must not notify anyone.
	buffer := &notify.Buffer{}
	ctx = notify.WithBuffer(ctx, buffer)
	err = runInTx(ctx, vs.db, func(tx *gorm.DB) error {
		target, err := vs.resolver.resolve(ctx, tx, ref)
		if err != nil {
			return err
		}
		if target.windowClosed(nowFunc()) {
			return ErrAgeExceeded
		}

		existing, err := vs.voteRepo.GetByVoterAndEntity(ctx, tx, voterID, ref)
		if err != nil {
			return fmt.Errorf("load existing vote: %w", err)
		}

		var vote *types.Vote
		var previousValue *int
		if existing != nil {
			prior := existing.Value
			previousValue = &prior
			result.PriorValue = &prior

			if existing.Value == value && existing.Tag == tag {
				result.Vote = existing
				return nil
			}
			if err := vs.adjustTallies(ctx, tx, ref, tallySwing(prior, value)); err != nil {
				return err
			}
			existing.Value = value
			existing.Tag = tag
			vote = existing
		} else {
			vote = &types.Vote{
				VoterID:    voterID,
				EntityType: ref.Type,
				EntityID:   ref.ID,
				Value:      value,
				Tag:        tag,
			}
			if err := vs.adjustTallies(ctx, tx, ref, tallySwing(0, value)); err != nil {
				return err
			}
			if _, err := vs.voteRepo.Create(ctx, tx, vote); err != nil {
				return fmt.Errorf("create vote: %w", err)
			}
		}

		delta, err := vs.karmaService.ApplyVoteKarma(ctx, tx, vote, target.ownerID, previousValue)
		if err != nil {
			return err
		}
		vote.KarmaGranted += delta
		if err := vs.voteRepo.Save(ctx, tx, vote); err != nil {
			return fmt.Errorf("save vote: %w", err)
		}

		if ref.Type == types.EntityPost && value > 0 {
			promoted, err := vs.frontpage.MaybePromote(ctx, tx, ref.ID)
			if err != nil {
				return err
			}
			result.FrontpageReached = promoted
		}

		result.Vote = vote
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := buffer.FlushTo(ctx, vs.bus); err != nil {
		vs.log.Warn("Failed to publish vote events", "entity_id", ref.ID, "error", err)
	}

	stats, err := vs.voteRepo.StatsForEntity(ctx, nil, ref)
	if err != nil {
		return nil, fmt.Errorf("vote stats: %w", err)
	}
	result.Stats = stats
	return result, nil
}

func (vs *voteService) RemoveVote(ctx context.Context, voterID uuid.UUID, ref types.EntityRef) (*RemoveVoteResult, error) {
	result := &RemoveVoteResult{}
	buffer := &notify.Buffer{}
	ctx = notify.WithBuffer(ctx, buffer)
	err := runInTx(ctx, vs.db, func(tx *gorm.DB) error {
		target, err := vs.resolver.resolve(ctx, tx, ref)
		if err != nil {
			return err
		}
		existing, err := vs.voteRepo.GetByVoterAndEntity(ctx, tx, voterID, ref)
		if err != nil {
			return fmt.Errorf("load existing vote: %w", err)
		}
		if existing == nil {
			// Unvoting without a vote is a no-op, not an error.
			return nil
		}
		if err := vs.karmaService.ReverseVoteKarma(ctx, tx, existing, target.ownerID); err != nil {
			return err
		}
		if err := vs.adjustTallies(ctx, tx, ref, tallySwing(existing.Value, 0)); err != nil {
			return err
		}
		if err := vs.voteRepo.Delete(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("delete vote: %w", err)
		}
		result.Removed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := buffer.FlushTo(ctx, vs.bus); err != nil {
		vs.log.Warn("Failed to publish vote events", "entity_id", ref.ID, "error", err)
	}

	stats, err := vs.voteRepo.StatsForEntity(ctx, nil, ref)
	if err != nil {
		return nil, fmt.Errorf("vote stats: %w", err)
	}
	result.Stats = stats
	return result, nil
}

type tallyDelta struct {
	up   int
	down int
}

// tallySwing maps an old/new value pair onto denormalized counter deltas.
// Zero means "no vote" on that side.
func tallySwing(oldValue, newValue int) tallyDelta {
	var d tallyDelta
	if oldValue > 0 {
		d.up--
	} else if oldValue < 0 {
		d.down--
	}
	if newValue > 0 {
		d.up++
	} else if newValue < 0 {
		d.down++
	}
	return d
}

func (vs *voteService) adjustTallies(ctx context.Context, tx *gorm.DB, ref types.EntityRef, delta tallyDelta) error {
	if delta.up == 0 && delta.down == 0 {
		return nil
	}
	switch ref.Type {
	case types.EntityPost:
		return vs.postRepo.IncrementVoteCounts(ctx, tx, ref.ID, delta.up, delta.down)
	case types.EntityComment:
		return vs.commentRepo.IncrementVoteCounts(ctx, tx, ref.ID, delta.up, delta.down)
	case types.EntityRelationship:
		return vs.relationRepo.IncrementVoteCounts(ctx, tx, ref.ID, delta.up, delta.down)
	default:
		return ErrValidation
	}
}

// normalizeVoteTag validates the tag against the entity's tag set and applies
// the post defaulting rule when the client omitted it.
func normalizeVoteTag(entityType types.EntityType, value int, tag string) (string, error) {
	switch entityType {
	case types.EntityPost:
		if tag == "" {
			return defaultVoteTag(value), nil
		}
		if _, ok := types.ContentVoteTags[tag]; !ok {
			return "", ErrVoteTag
		}
		return tag, nil
	case types.EntityComment:
		if tag == "" {
			return "", ErrVoteTag
		}
		if _, ok := types.ContentVoteTags[tag]; !ok {
			return "", ErrVoteTag
		}
		return tag, nil
	case types.EntityRelationship:
		if tag != "" {
			return "", ErrVoteTag
		}
		return "", nil
	default:
		return "", ErrValidation
	}
}
