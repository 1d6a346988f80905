package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/services"
)

type KarmaHandler struct {
	log          *logger.Logger
	karmaService services.KarmaService
}

func NewKarmaHandler(log *logger.Logger, karmaService services.KarmaService) *KarmaHandler {
	return &KarmaHandler{log: log.With("handler", "KarmaHandler"), karmaService: karmaService}
}

func (kh *KarmaHandler) GetSummary(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	summary, err := kh.karmaService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (kh *KarmaHandler) GetLevels(c *gin.Context) {
	levels, err := kh.karmaService.Levels(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"levels": levels})
}
