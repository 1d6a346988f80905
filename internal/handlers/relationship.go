package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/requestdata"
	"github.com/agoradev/agora-backend/internal/services"
)

type RelationshipHandler struct {
	log                 *logger.Logger
	relationshipService services.RelationshipService
}

func NewRelationshipHandler(log *logger.Logger, relationshipService services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		log:                 log.With("handler", "RelationshipHandler"),
		relationshipService: relationshipService,
	}
}

type relationshipRequest struct {
	RelatedPostID string `json:"related_post_id"`
	Type          string `json:"type"`
}

func (rh *RelationshipHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	var req relationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	relatedPostID, err := uuid.Parse(req.RelatedPostID)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}

	relationship, err := rh.relationshipService.Create(c.Request.Context(), rd.UserID, postID, relatedPostID, req.Type)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":      "relationship created",
		"relationship": relationship,
	})
}
