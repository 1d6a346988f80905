package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/services"
)

type RankingHandler struct {
	log            *logger.Logger
	rankingService services.RankingService
}

func NewRankingHandler(log *logger.Logger, rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{log: log.With("handler", "RankingHandler"), rankingService: rankingService}
}

func (rh *RankingHandler) GetRanking(c *gin.Context) {
	kind := c.Param("kind")
	timeframe := c.DefaultQuery("timeframe", services.TimeframeAll)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	result, err := rh.rankingService.GetRanking(c.Request.Context(), kind, timeframe, page, perPage)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"data":      result,
		"timeframe": timeframe,
	})
}
