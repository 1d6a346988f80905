package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/requestdata"
	"github.com/agoradev/agora-backend/internal/services"
)

type SealHandler struct {
	log         *logger.Logger
	sealService services.SealService
}

func NewSealHandler(log *logger.Logger, sealService services.SealService) *SealHandler {
	return &SealHandler{log: log.With("handler", "SealHandler"), sealService: sealService}
}

type sealRequest struct {
	Type string `json:"type"`
}

func (sh *SealHandler) ApplySeal(c *gin.Context) {
	sh.mutate(c, true)
}

func (sh *SealHandler) RemoveSeal(c *gin.Context) {
	sh.mutate(c, false)
}

func (sh *SealHandler) mutate(c *gin.Context, apply bool) {
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
	var req sealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}

	var result *services.SealResult
	if apply {
		result, err = sh.sealService.ApplyMark(c.Request.Context(), rd.UserID, postID, req.Type)
	} else {
		result, err = sh.sealService.RemoveMark(c.Request.Context(), rd.UserID, postID, req.Type)
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	message := "seal applied"
	if !apply {
		message = "seal removed"
	}
	RespondOK(c, gin.H{
		"message":         message,
		"available_seals": result.AvailableSeals,
		"post": gin.H{
			"recommended_seals_count":    result.RecommendedSealsCount,
			"advise_against_seals_count": result.AdviseAgainstSealsCount,
		},
	})
}
