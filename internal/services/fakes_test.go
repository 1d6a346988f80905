package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// In-memory repositories backing the service flow tests. The services run
// without a DB handle, so every repo call arrives with a nil tx and state
// lives in plain maps.

type fakePostRepo struct {
	posts map[uuid.UUID]*types.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]*types.Post{}}
}

func (f *fakePostRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	f.posts[post.ID] = post
	return post, nil
}
func (f *fakePostRepo) GetByID(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (*types.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// The real repo returns a detached row; mirror that so service-side
	// snapshots don't alias the stored struct.
	clone := *post
	return &clone, nil
}
func (f *fakePostRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, postID uuid.UUID, upDelta, downDelta int) error {
	post, ok := f.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.UpvotesCount += upDelta
	post.DownvotesCount += downDelta
	return nil
}
func (f *fakePostRepo) IncrementSealCount(ctx context.Context, tx *gorm.DB, postID uuid.UUID, sealType string, delta int) error {
	post, ok := f.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if sealType == types.SealTypeRecommended {
		post.RecommendedSealsCount += delta
	} else {
		post.AdviseAgainstSealsCount += delta
	}
	return nil
}
func (f *fakePostRepo) SetFrontpageAt(ctx context.Context, tx *gorm.DB, postID uuid.UUID, at time.Time) error {
	post, ok := f.posts[postID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if post.FrontpageAt == nil {
		stamp := at
		post.FrontpageAt = &stamp
	}
	return nil
}
func (f *fakePostRepo) FrontpageOccupants(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Post, error) {
	var occupants []*types.Post
	for _, post := range f.posts {
		if post.FrontpageAt != nil && post.FrontpageAt.After(since) {
			occupants = append(occupants, post)
		}
	}
	return occupants, nil
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]*types.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uuid.UUID]*types.Comment{}}
}

func (f *fakeCommentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) (*types.Comment, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	f.comments[comment.ID] = comment
	return comment, nil
}
func (f *fakeCommentRepo) GetByID(ctx context.Context, tx *gorm.DB, commentID uuid.UUID) (*types.Comment, error) {
	comment, ok := f.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}
func (f *fakeCommentRepo) ListByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) ([]*types.Comment, error) {
	var out []*types.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	return out, nil
}
func (f *fakeCommentRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, commentID uuid.UUID, upDelta, downDelta int) error {
	comment, ok := f.comments[commentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	comment.UpvotesCount += upDelta
	comment.DownvotesCount += downDelta
	return nil
}

type fakeRelationshipRepo struct {
	relationships map[uuid.UUID]*types.PostRelationship
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{relationships: map[uuid.UUID]*types.PostRelationship{}}
}

func (f *fakeRelationshipRepo) Create(ctx context.Context, tx *gorm.DB, relationship *types.PostRelationship) (*types.PostRelationship, error) {
	if relationship.ID == uuid.Nil {
		relationship.ID = uuid.New()
	}
	f.relationships[relationship.ID] = relationship
	return relationship, nil
}
func (f *fakeRelationshipRepo) GetByID(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID) (*types.PostRelationship, error) {
	relationship, ok := f.relationships[relationshipID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return relationship, nil
}
func (f *fakeRelationshipRepo) Exists(ctx context.Context, tx *gorm.DB, postID, relatedPostID uuid.UUID, relType string) (bool, error) {
	for _, relationship := range f.relationships {
		if relationship.PostID == postID && relationship.RelatedPostID == relatedPostID && relationship.Type == relType {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeRelationshipRepo) IncrementVoteCounts(ctx context.Context, tx *gorm.DB, relationshipID uuid.UUID, upDelta, downDelta int) error {
	relationship, ok := f.relationships[relationshipID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	relationship.UpvotesCount += upDelta
	relationship.DownvotesCount += downDelta
	return nil
}

type fakeVoteRepo struct {
	votes   map[string]*types.Vote
	saveErr error
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: map[string]*types.Vote{}}
}

func voteKey(voterID uuid.UUID, ref types.EntityRef) string {
	return fmt.Sprintf("%s|%s|%s", voterID, ref.Type, ref.ID)
}

func (f *fakeVoteRepo) GetByVoterAndEntity(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, ref types.EntityRef) (*types.Vote, error) {
	return f.votes[voteKey(voterID, ref)], nil
}
func (f *fakeVoteRepo) ListByVoterAndEntities(ctx context.Context, tx *gorm.DB, voterID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID) ([]*types.Vote, error) {
	var out []*types.Vote
	for _, id := range entityIDs {
		if vote := f.votes[voteKey(voterID, types.EntityRef{Type: entityType, ID: id})]; vote != nil {
			out = append(out, vote)
		}
	}
	return out, nil
}
func (f *fakeVoteRepo) Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) (*types.Vote, error) {
	key := voteKey(vote.VoterID, vote.Ref())
	if _, exists := f.votes[key]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	f.votes[key] = vote
	return vote, nil
}
func (f *fakeVoteRepo) Save(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.votes[voteKey(vote.VoterID, vote.Ref())] = vote
	return nil
}
func (f *fakeVoteRepo) Delete(ctx context.Context, tx *gorm.DB, voteID uuid.UUID) error {
	for key, vote := range f.votes {
		if vote.ID == voteID {
			delete(f.votes, key)
			return nil
		}
	}
	return nil
}
func (f *fakeVoteRepo) StatsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (*repos.VoteStats, error) {
	stats := &repos.VoteStats{ByTag: map[string]int64{}}
	for _, vote := range f.votes {
		if vote.EntityType != ref.Type || vote.EntityID != ref.ID {
			continue
		}
		if vote.Value > 0 {
			stats.Positive++
		} else {
			stats.Negative++
		}
		if vote.Tag != "" {
			stats.ByTag[vote.Tag]++
		}
	}
	return stats, nil
}
func (f *fakeVoteRepo) HasAnyByVoter(ctx context.Context, tx *gorm.DB, voterID uuid.UUID) (bool, error) {
	for _, vote := range f.votes {
		if vote.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeVoteRepo) CountsForEntity(ctx context.Context, tx *gorm.DB, ref types.EntityRef) (int64, int64, error) {
	stats, _ := f.StatsForEntity(ctx, tx, ref)
	return stats.Positive, stats.Negative, nil
}

// countFor reports how many vote rows exist for one entity.
func (f *fakeVoteRepo) countFor(ref types.EntityRef) int {
	count := 0
	for _, vote := range f.votes {
		if vote.EntityType == ref.Type && vote.EntityID == ref.ID {
			count++
		}
	}
	return count
}

type fakeSealRepo struct {
	allocations map[uuid.UUID]*types.SealAllocation
	marks       map[uuid.UUID]*types.SealMark
}

func newFakeSealRepo() *fakeSealRepo {
	return &fakeSealRepo{
		allocations: map[uuid.UUID]*types.SealAllocation{},
		marks:       map[uuid.UUID]*types.SealMark{},
	}
}

func (f *fakeSealRepo) GetAllocation(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error) {
	return f.allocations[userID], nil
}
func (f *fakeSealRepo) GetAllocationForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SealAllocation, error) {
	return f.allocations[userID], nil
}
func (f *fakeSealRepo) SaveAllocation(ctx context.Context, tx *gorm.DB, allocation *types.SealAllocation) error {
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	f.allocations[allocation.UserID] = allocation
	return nil
}
func (f *fakeSealRepo) GetActiveMark(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref types.EntityRef, sealType string, now time.Time) (*types.SealMark, error) {
	for _, mark := range f.marks {
		if mark.UserID == userID && mark.EntityType == ref.Type && mark.EntityID == ref.ID &&
			mark.Type == sealType && mark.ExpiresAt.After(now) {
			return mark, nil
		}
	}
	return nil, nil
}
func (f *fakeSealRepo) CreateMark(ctx context.Context, tx *gorm.DB, mark *types.SealMark) (*types.SealMark, error) {
	if mark.ID == uuid.Nil {
		mark.ID = uuid.New()
	}
	f.marks[mark.ID] = mark
	return mark, nil
}
func (f *fakeSealRepo) DeleteMark(ctx context.Context, tx *gorm.DB, markID uuid.UUID) error {
	delete(f.marks, markID)
	return nil
}
func (f *fakeSealRepo) ListActiveByUserAndEntities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entityType types.EntityType, entityIDs []uuid.UUID, now time.Time) ([]*types.SealMark, error) {
	var out []*types.SealMark
	for _, mark := range f.marks {
		if mark.UserID != userID || mark.EntityType != entityType || !mark.ExpiresAt.After(now) {
			continue
		}
		for _, id := range entityIDs {
			if mark.EntityID == id {
				out = append(out, mark)
				break
			}
		}
	}
	return out, nil
}
