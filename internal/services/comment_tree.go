package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// CommentNode is one node of the assembled thread, viewer annotations
// included when a viewer is known.
type CommentNode struct {
	ID                   uuid.UUID      `json:"id"`
	UserID               uuid.UUID      `json:"user_id"`
	Username             string         `json:"username,omitempty"`
	ParentID             *uuid.UUID     `json:"parent_id,omitempty"`
	Body                 string         `json:"body"`
	Status               string         `json:"status"`
	UpvotesCount         int            `json:"upvotes_count"`
	DownvotesCount       int            `json:"downvotes_count"`
	CreatedAt            time.Time      `json:"created_at"`
	UserVote             *int           `json:"user_vote,omitempty"`
	UserVoteTag          string         `json:"user_vote_tag,omitempty"`
	UserHasRecommended   bool           `json:"user_has_recommended,omitempty"`
	UserHasAdviseAgainst bool           `json:"user_has_advise_against,omitempty"`
	Replies              []*CommentNode `json:"replies"`
}

type CommentTreeService interface {
	// BuildTree returns the post's thread as roots with nested replies: one
	// query for the comments, plus at most one each for the viewer's votes and
	// seal marks.
	BuildTree(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) ([]*CommentNode, error)
}

type commentTreeService struct {
	db          *gorm.DB
	log         *logger.Logger
	postRepo    repos.PostRepo
	commentRepo repos.CommentRepo
	voteRepo    repos.VoteRepo
	sealRepo    repos.SealRepo
}

func NewCommentTreeService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo, commentRepo repos.CommentRepo, voteRepo repos.VoteRepo, sealRepo repos.SealRepo) CommentTreeService {
	return &commentTreeService{
		db:          db,
		log:         log.With("service", "CommentTreeService"),
		postRepo:    postRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		sealRepo:    sealRepo,
	}
}

func (cs *commentTreeService) BuildTree(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) ([]*CommentNode, error) {
	if _, err := cs.postRepo.GetByID(ctx, nil, postID); err != nil {
		return nil, notFoundOr(err)
	}

	comments, err := cs.commentRepo.ListByPost(ctx, nil, postID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	roots, index := linkCommentTree(comments)
	if viewerID == nil || len(index) == 0 {
		return roots, nil
	}

	ids := make([]uuid.UUID, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}

	votes, err := cs.voteRepo.ListByVoterAndEntities(ctx, nil, *viewerID, types.EntityComment, ids)
	if err != nil {
		return nil, fmt.Errorf("viewer votes: %w", err)
	}
	for _, vote := range votes {
		if node, ok := index[vote.EntityID]; ok {
			value := vote.Value
			node.UserVote = &value
			node.UserVoteTag = vote.Tag
		}
	}

	marks, err := cs.sealRepo.ListActiveByUserAndEntities(ctx, nil, *viewerID, types.EntityComment, ids, nowFunc())
	if err != nil {
		return nil, fmt.Errorf("viewer seal marks: %w", err)
	}
	for _, mark := range marks {
		if node, ok := index[mark.EntityID]; ok {
			switch mark.Type {
			case types.SealTypeRecommended:
				node.UserHasRecommended = true
			case types.SealTypeAdviseAgainst:
				node.UserHasAdviseAgainst = true
			}
		}
	}
	return roots, nil
}

// linkCommentTree turns the flat comment set into a tree in a single pass:
// index by id, then attach each child to its parent's reply list. Orphans
// (parent missing from the set) surface as roots rather than vanishing.
// O(n) regardless of nesting depth.
func linkCommentTree(comments []*types.Comment) ([]*CommentNode, map[uuid.UUID]*CommentNode) {
	index := make(map[uuid.UUID]*CommentNode, len(comments))
	for _, comment := range comments {
		index[comment.ID] = commentNode(comment)
	}

	var roots []*CommentNode
	for _, comment := range comments {
		node := index[comment.ID]
		if comment.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[*comment.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots, index
}

func commentNode(comment *types.Comment) *CommentNode {
	node := &CommentNode{
		ID:             comment.ID,
		UserID:         comment.UserID,
		ParentID:       comment.ParentID,
		Body:           comment.Body,
		Status:         comment.Status,
		UpvotesCount:   comment.UpvotesCount,
		DownvotesCount: comment.DownvotesCount,
		CreatedAt:      comment.CreatedAt,
		Replies:        []*CommentNode{},
	}
	if comment.User != nil {
		node.Username = comment.User.Username
	}
	// Moderation overlay: removed comments keep their place in the thread but
	// lose their body.
	if comment.Status == types.CommentStatusRemoved {
		node.Body = "[removed]"
	}
	return node
}
