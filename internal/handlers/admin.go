package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/requestdata"
	"github.com/agoradev/agora-backend/internal/services"
)

type AdminHandler struct {
	log              *logger.Logger
	rankingService   services.RankingService
	reconcileService services.ReconcileService
}

func NewAdminHandler(log *logger.Logger, rankingService services.RankingService, reconcileService services.ReconcileService) *AdminHandler {
	return &AdminHandler{
		log:              log.With("handler", "AdminHandler"),
		rankingService:   rankingService,
		reconcileService: reconcileService,
	}
}

func (ah *AdminHandler) requireAdmin(c *gin.Context) bool {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || !rd.IsAdmin {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return false
	}
	return true
}

func (ah *AdminHandler) FlushRankings(c *gin.Context) {
	if !ah.requireAdmin(c) {
		return
	}
	if err := ah.rankingService.Flush(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "rankings cache flushed"})
}

func (ah *AdminHandler) Reconcile(c *gin.Context) {
	if !ah.requireAdmin(c) {
		return
	}
	karmaCorrected, err := ah.reconcileService.ReconcileUserKarma(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	votesCorrected, err := ah.reconcileService.ReconcilePostVoteCounts(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":               "reconciliation complete",
		"karma_corrected":       karmaCorrected,
		"vote_counts_corrected": votesCorrected,
	})
}
