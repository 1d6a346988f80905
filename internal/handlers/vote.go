package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/requestdata"
	"github.com/agoradev/agora-backend/internal/services"
	"github.com/agoradev/agora-backend/internal/types"
)

type VoteHandler struct {
	log         *logger.Logger
	voteService services.VoteService
}

func NewVoteHandler(log *logger.Logger, voteService services.VoteService) *VoteHandler {
	return &VoteHandler{log: log.With("handler", "VoteHandler"), voteService: voteService}
}

type voteRequest struct {
	Value int    `json:"value"`
	Type  string `json:"type"`
}

func (vh *VoteHandler) VotePost(c *gin.Context) {
	vh.castVote(c, types.EntityPost)
}

func (vh *VoteHandler) UnvotePost(c *gin.Context) {
	vh.removeVote(c, types.EntityPost)
}

func (vh *VoteHandler) VoteComment(c *gin.Context) {
	vh.castVote(c, types.EntityComment)
}

func (vh *VoteHandler) UnvoteComment(c *gin.Context) {
	vh.removeVote(c, types.EntityComment)
}

func (vh *VoteHandler) VoteRelationship(c *gin.Context) {
	vh.castVote(c, types.EntityRelationship)
}

func (vh *VoteHandler) UnvoteRelationship(c *gin.Context) {
	vh.removeVote(c, types.EntityRelationship)
}

func (vh *VoteHandler) castVote(c *gin.Context, entityType types.EntityType) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}

	ref := types.EntityRef{Type: entityType, ID: entityID}
	result, err := vh.voteService.CastVote(c.Request.Context(), rd.UserID, ref, req.Value, req.Type)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"message":           "vote recorded",
		"votes":             result.Stats.Positive - result.Stats.Negative,
		"vote_stats":        result.Stats,
		"user_vote":         result.Vote.Value,
		"user_vote_type":    result.Vote.Tag,
		"frontpage_reached": result.FrontpageReached,
	})
}

func (vh *VoteHandler) removeVote(c *gin.Context, entityType types.EntityType) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}

	ref := types.EntityRef{Type: entityType, ID: entityID}
	result, err := vh.voteService.RemoveVote(c.Request.Context(), rd.UserID, ref)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"message":    "vote removed",
		"removed":    result.Removed,
		"votes":      result.Stats.Positive - result.Stats.Negative,
		"vote_stats": result.Stats,
		"user_vote":  nil,
	})
}
