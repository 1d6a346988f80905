package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/requestdata"
	"github.com/agoradev/agora-backend/internal/services"
)

type CommentHandler struct {
	log         *logger.Logger
	treeService services.CommentTreeService
}

func NewCommentHandler(log *logger.Logger, treeService services.CommentTreeService) *CommentHandler {
	return &CommentHandler{log: log.With("handler", "CommentHandler"), treeService: treeService}
}

func (ch *CommentHandler) GetTree(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}

	var viewerID *uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		id := rd.UserID
		viewerID = &id
	}

	tree, err := ch.treeService.BuildTree(c.Request.Context(), postID, viewerID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"comments": tree})
}
