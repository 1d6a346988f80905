package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/notify"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// KarmaSummary is the read shape for GET /karma/:userId.
type KarmaSummary struct {
	KarmaPoints   int                   `json:"karma_points"`
	Level         *types.KarmaLevel     `json:"level,omitempty"`
	NextLevel     *types.KarmaLevel     `json:"next_level,omitempty"`
	RecentHistory []*types.KarmaHistory `json:"recent_history"`
}

type KarmaService interface {
	// ApplyVoteKarma credits the content author for a vote. previousValue, when
	// present, makes the delta the full swing between old and new contribution.
	// Returns the recorded delta (multiplier included).
	ApplyVoteKarma(ctx context.Context, tx *gorm.DB, vote *types.Vote, authorID uuid.UUID, previousValue *int) (int, error)
	// ReverseVoteKarma returns the author to their pre-vote balance by negating
	// the exact amount this vote granted.
	ReverseVoteKarma(ctx context.Context, tx *gorm.DB, vote *types.Vote, authorID uuid.UUID) error
	GetSummary(ctx context.Context, userID uuid.UUID) (*KarmaSummary, error)
	Levels(ctx context.Context) ([]*types.KarmaLevel, error)
}

type karmaService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	karmaRepo repos.KarmaRepo
	levelRepo repos.KarmaLevelRepo
	eventRepo repos.KarmaEventRepo
	bus       notify.Bus
}

func NewKarmaService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, karmaRepo repos.KarmaRepo, levelRepo repos.KarmaLevelRepo, eventRepo repos.KarmaEventRepo, bus notify.Bus) KarmaService {
	return &karmaService{
		db:        db,
		log:       log.With("service", "KarmaService"),
		userRepo:  userRepo,
		karmaRepo: karmaRepo,
		levelRepo: levelRepo,
		eventRepo: eventRepo,
		bus:       bus,
	}
}

func (ks *karmaService) ApplyVoteKarma(ctx context.Context, tx *gorm.DB, vote *types.Vote, authorID uuid.UUID, previousValue *int) (int, error) {
	now := nowFunc()

	oldContribution := 0
	if previousValue != nil {
		oldContribution = baseContribution(vote.EntityType, *previousValue)
	}
	newContribution := baseContribution(vote.EntityType, vote.Value)
	base := newContribution - oldContribution
	if base == 0 {
		return 0, nil
	}

	multiplier, err := ks.activeMultiplier(ctx, tx, now)
	if err != nil {
		return 0, err
	}
	delta := applyMultiplier(base, multiplier)

	source := karmaSource(vote, previousValue)
	description := fmt.Sprintf("vote on %s %s", vote.EntityType, vote.EntityID)
	if err := ks.record(ctx, tx, authorID, delta, source, description, now); err != nil {
		return 0, err
	}
	return delta, nil
}

func (ks *karmaService) ReverseVoteKarma(ctx context.Context, tx *gorm.DB, vote *types.Vote, authorID uuid.UUID) error {
	if vote.KarmaGranted == 0 {
		return nil
	}
	description := fmt.Sprintf("vote removed from %s %s", vote.EntityType, vote.EntityID)
	return ks.record(ctx, tx, authorID, -vote.KarmaGranted, types.KarmaSourceVoteReversed, description, nowFunc())
}

// record writes the ledger entry, folds the daily stat, and moves the
// denormalized total in the same transaction, then checks for a level change.
func (ks *karmaService) record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int, source, description string, now time.Time) error {
	if delta == 0 {
		return nil
	}
	user, err := ks.userRepo.GetByID(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("karma recipient: %w", err)
	}

	entry := &types.KarmaHistory{
		UserID:      userID,
		Amount:      delta,
		Source:      source,
		Description: description,
	}
	if err := ks.karmaRepo.InsertHistory(ctx, tx, entry); err != nil {
		return fmt.Errorf("insert karma history: %w", err)
	}
	if err := ks.karmaRepo.AddDailyStat(ctx, tx, userID, now, delta); err != nil {
		return fmt.Errorf("add daily karma stat: %w", err)
	}
	if err := ks.userRepo.AddKarma(ctx, tx, userID, delta); err != nil {
		return fmt.Errorf("update karma points: %w", err)
	}

	levels, err := ks.levelRepo.ListOrdered(ctx, tx)
	if err != nil {
		return fmt.Errorf("list karma levels: %w", err)
	}
	before, _ := levelFor(levels, user.KarmaPoints)
	after, _ := levelFor(levels, user.KarmaPoints+delta)
	if after != nil && (before == nil || after.RequiredKarma > before.RequiredKarma) {
		if err := notify.Emit(ctx, ks.bus, notify.Event{
			Kind:   notify.EventLevelUp,
			UserID: userID,
			Detail: after.Name,
		}); err != nil {
			ks.log.Warn("Failed to publish level up event", "user_id", userID, "error", err)
		}
	}
	return nil
}

// activeMultiplier picks the highest multiplier among events covering now.
// Events are expected not to overlap; when they do the strongest one wins.
func (ks *karmaService) activeMultiplier(ctx context.Context, tx *gorm.DB, now time.Time) (float64, error) {
	events, err := ks.eventRepo.ActiveAt(ctx, tx, now)
	if err != nil {
		return 1, fmt.Errorf("active karma events: %w", err)
	}
	multiplier := 1.0
	for _, event := range events {
		if event.Multiplier > multiplier {
			multiplier = event.Multiplier
		}
	}
	return multiplier, nil
}

func karmaSource(vote *types.Vote, previousValue *int) string {
	if previousValue != nil {
		return types.KarmaSourceVoteChanged
	}
	switch vote.EntityType {
	case types.EntityPost:
		if vote.Value > 0 {
			return types.KarmaSourcePostUpvoted
		}
		return types.KarmaSourcePostDownvoted
	default:
		if vote.Value > 0 {
			return types.KarmaSourceCommentUpvoted
		}
		return types.KarmaSourceCommentDownvoted
	}
}

func (ks *karmaService) GetSummary(ctx context.Context, userID uuid.UUID) (*KarmaSummary, error) {
	user, err := ks.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	levels, err := ks.levelRepo.ListOrdered(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list karma levels: %w", err)
	}
	current, next := levelFor(levels, user.KarmaPoints)
	history, err := ks.karmaRepo.RecentHistory(ctx, nil, userID, RecentHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("recent karma history: %w", err)
	}
	return &KarmaSummary{
		KarmaPoints:   user.KarmaPoints,
		Level:         current,
		NextLevel:     next,
		RecentHistory: history,
	}, nil
}

func (ks *karmaService) Levels(ctx context.Context) ([]*types.KarmaLevel, error) {
	return ks.levelRepo.ListOrdered(ctx, nil)
}
