package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/agoradev/agora-backend/internal/cache"
	"github.com/agoradev/agora-backend/internal/db"
	"github.com/agoradev/agora-backend/internal/handlers"
	"github.com/agoradev/agora-backend/internal/jobs"
	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/middleware"
	"github.com/agoradev/agora-backend/internal/notify"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/seed"
	"github.com/agoradev/agora-backend/internal/server"
	"github.com/agoradev/agora-backend/internal/services"
	"github.com/agoradev/agora-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	port := utils.GetEnv("PORT", "8080", log)
	levelsPath := utils.GetEnv("KARMA_LEVELS_PATH", "config/karma_levels.yaml", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	postRepo := repos.NewPostRepo(thePG, log)
	commentRepo := repos.NewCommentRepo(thePG, log)
	voteRepo := repos.NewVoteRepo(thePG, log)
	karmaRepo := repos.NewKarmaRepo(thePG, log)
	karmaLevelRepo := repos.NewKarmaLevelRepo(thePG, log)
	karmaEventRepo := repos.NewKarmaEventRepo(thePG, log)
	sealRepo := repos.NewSealRepo(thePG, log)
	relationshipRepo := repos.NewRelationshipRepo(thePG, log)
	rankingRepo := repos.NewRankingRepo(thePG, log)

	// Level seed
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err = seed.KarmaLevels(seedCtx, log, karmaLevelRepo, levelsPath); err != nil {
		log.Warn("Karma level seed failed", "error", err)
	}
	cancelSeed()

	// Cache
	cacheClient, err := cache.New(log)
	if err != nil {
		log.Warn("Redis cache unavailable, falling back to in-process cache", "error", err)
		cacheClient = cache.NewMemory()
	}
	defer cacheClient.Close()

	// Notify bus
	bus, err := notify.NewBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, notifications disabled", "error", err)
		bus = notify.NopBus{}
	}
	defer bus.Close()

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	karmaService := services.NewKarmaService(thePG, log, userRepo, karmaRepo, karmaLevelRepo, karmaEventRepo, bus)
	frontpageService := services.NewFrontpageService(thePG, log, postRepo, bus)
	voteService := services.NewVoteService(thePG, log, voteRepo, postRepo, commentRepo, relationshipRepo, karmaService, frontpageService, bus)
	sealService := services.NewSealService(thePG, log, sealRepo, postRepo, userRepo, karmaLevelRepo)
	rankingService := services.NewRankingService(log, rankingRepo, karmaRepo, cacheClient)
	commentTreeService := services.NewCommentTreeService(thePG, log, postRepo, commentRepo, voteRepo, sealRepo)
	relationshipService := services.NewRelationshipService(thePG, log, relationshipRepo, postRepo)
	reconcileService := services.NewReconcileService(thePG, log, userRepo, karmaRepo, voteRepo, postRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	voteHandler := handlers.NewVoteHandler(log, voteService)
	sealHandler := handlers.NewSealHandler(log, sealService)
	rankingHandler := handlers.NewRankingHandler(log, rankingService)
	karmaHandler := handlers.NewKarmaHandler(log, karmaService)
	commentHandler := handlers.NewCommentHandler(log, commentTreeService)
	relationshipHandler := handlers.NewRelationshipHandler(log, relationshipService)
	adminHandler := handlers.NewAdminHandler(log, rankingService, reconcileService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Cron
	scheduler := jobs.NewScheduler(log, sealService, rankingService, reconcileService)
	if err = scheduler.Start(); err != nil {
		log.Fatal("Cron scheduler failed to start", "error", err)
	}
	defer scheduler.Stop()

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		VoteHandler:         voteHandler,
		SealHandler:         sealHandler,
		RankingHandler:      rankingHandler,
		KarmaHandler:        karmaHandler,
		CommentHandler:      commentHandler,
		RelationshipHandler: relationshipHandler,
		AdminHandler:        adminHandler,
	})

	log.Info("Starting server", "port", port)
	if err = router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
