package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agoradev/agora-backend/internal/handlers"
	"github.com/agoradev/agora-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	VoteHandler         *handlers.VoteHandler
	SealHandler         *handlers.SealHandler
	RankingHandler      *handlers.RankingHandler
	KarmaHandler        *handlers.KarmaHandler
	CommentHandler      *handlers.CommentHandler
	RelationshipHandler *handlers.RelationshipHandler
	AdminHandler        *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}
	// Viewer-aware reads work anonymously too.
	public := router.Group("/")
	public.Use(cfg.AuthMiddleware.OptionalAuth())
	public.GET("/rankings/:kind", cfg.RankingHandler.GetRanking)
	public.GET("/karma/levels", cfg.KarmaHandler.GetLevels)
	public.GET("/karma/:userId", cfg.KarmaHandler.GetSummary)
	public.GET("/posts/:id/comments", cfg.CommentHandler.GetTree)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Votes
	protected.POST("/posts/:id/vote", cfg.VoteHandler.VotePost)
	protected.DELETE("/posts/:id/vote", cfg.VoteHandler.UnvotePost)
	protected.POST("/comments/:id/vote", cfg.VoteHandler.VoteComment)
	protected.DELETE("/comments/:id/vote", cfg.VoteHandler.UnvoteComment)
	protected.POST("/relationships/:id/vote", cfg.VoteHandler.VoteRelationship)
	protected.DELETE("/relationships/:id/vote", cfg.VoteHandler.UnvoteRelationship)
	// Seals
	protected.POST("/posts/:id/seal", cfg.SealHandler.ApplySeal)
	protected.DELETE("/posts/:id/seal", cfg.SealHandler.RemoveSeal)
	// Relationships
	protected.POST("/posts/:id/relationships", cfg.RelationshipHandler.Create)
	// Admin
	protected.POST("/admin/rankings/flush", cfg.AdminHandler.FlushRankings)
	protected.POST("/admin/reconcile", cfg.AdminHandler.Reconcile)

	return router
}
