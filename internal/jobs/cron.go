package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/services"
)

// Scheduler owns the recurring maintenance work: weekly seal replenishment,
// the hourly ranking cache flush and the nightly ledger reconcile.
type Scheduler struct {
	cron      *cron.Cron
	log       *logger.Logger
	seals     services.SealService
	rankings  services.RankingService
	reconcile services.ReconcileService
}

func NewScheduler(log *logger.Logger, seals services.SealService, rankings services.RankingService, reconcile services.ReconcileService) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		log:       log,
		seals:     seals,
		rankings:  rankings,
		reconcile: reconcile,
	}
}

func (s *Scheduler) Start() error {
	// Mondays at 00:00 UTC: reset seal allocations to each user's level quota.
	if _, err := s.cron.AddFunc("0 0 * * 1", s.runReplenish); err != nil {
		return err
	}
	// Hourly: drop cached ranking pages and re-warm the first page of each kind.
	if _, err := s.cron.AddFunc("@hourly", s.runFlush); err != nil {
		return err
	}
	// Nightly at 03:30 UTC: recompute karma totals and vote tallies from the ledger.
	if _, err := s.cron.AddFunc("30 3 * * *", s.runReconcile); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Cron scheduler started", "jobs", 3)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.log.Warn("Cron scheduler stop timed out")
	}
}

func (s *Scheduler) runReplenish() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := s.seals.ReplenishAllocations(ctx); err != nil {
		s.log.Error("Seal replenishment failed", "error", err)
		return
	}
	s.log.Info("Seal allocations replenished")
}

func (s *Scheduler) runFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := s.rankings.Flush(ctx); err != nil {
		s.log.Error("Ranking cache flush failed", "error", err)
	}
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	usersFixed, err := s.reconcile.ReconcileUserKarma(ctx)
	if err != nil {
		s.log.Error("Karma reconcile failed", "error", err)
		return
	}
	postsFixed, err := s.reconcile.ReconcilePostVoteCounts(ctx)
	if err != nil {
		s.log.Error("Vote count reconcile failed", "error", err)
		return
	}
	s.log.Info("Nightly reconcile finished", "users_fixed", usersFixed, "posts_fixed", postsFixed)
}
