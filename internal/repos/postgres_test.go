package repos

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

// testDB opens the database named by TEST_POSTGRES_DSN and migrates the
// tables these tests touch. The tests skip when the variable is unset so the
// suite stays runnable without a live Postgres.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("enable uuid-ossp: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Sub{},
		&types.Post{},
		&types.Vote{},
		&types.KarmaHistory{},
		&types.DailyKarmaStat{},
		&types.SealMark{},
		&types.SealAllocation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func seedUser(t *testing.T, db *gorm.DB) *types.User {
	t.Helper()
	suffix := uuid.New().String()[:8]
	user := &types.User{
		Email:    fmt.Sprintf("prueba+%s@agora.dev", suffix),
		Username: "prueba_" + suffix,
		Password: "irrelevante",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Where("id = ?", user.ID).Delete(&types.User{}) })
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *types.User) *types.Post {
	t.Helper()
	suffix := uuid.New().String()[:8]
	sub := &types.Sub{Name: "sub_" + suffix}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed sub: %v", err)
	}
	post := &types.Post{
		UserID: author.ID,
		SubID:  sub.ID,
		Title:  "hilo de prueba",
		Status: types.PostStatusPublished,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("id = ?", post.ID).Delete(&types.Post{})
		db.Unscoped().Where("id = ?", sub.ID).Delete(&types.Sub{})
	})
	return post
}

func TestVoteRepo_UniqueRowPerVoterAndEntity(t *testing.T) {
	db := testDB(t)
	repo := NewVoteRepo(db, testLogger(t))
	ctx := context.Background()

	author := seedUser(t, db)
	voter := seedUser(t, db)
	post := seedPost(t, db, author)
	ref := types.EntityRef{Type: types.EntityPost, ID: post.ID}
	t.Cleanup(func() { db.Where("entity_id = ?", post.ID).Delete(&types.Vote{}) })

	vote := &types.Vote{VoterID: voter.ID, EntityType: ref.Type, EntityID: ref.ID, Value: 1, Tag: types.VoteTagInteresting}
	if _, err := repo.Create(ctx, nil, vote); err != nil {
		t.Fatalf("create: %v", err)
	}

	duplicate := &types.Vote{VoterID: voter.ID, EntityType: ref.Type, EntityID: ref.ID, Value: -1, Tag: types.VoteTagIrrelevant}
	if _, err := repo.Create(ctx, nil, duplicate); err == nil {
		t.Fatal("second row for the same voter and entity must violate the unique index")
	}

	// Re-voting goes through Save and keeps the row identity.
	vote.Value = -1
	vote.Tag = types.VoteTagFalse
	if err := repo.Save(ctx, nil, vote); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.GetByVoterAndEntity(ctx, nil, voter.ID, ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.ID != vote.ID || loaded.Value != -1 || loaded.Tag != types.VoteTagFalse {
		t.Fatalf("unexpected row after save: %+v", loaded)
	}

	stats, err := repo.StatsForEntity(ctx, nil, ref)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Positive != 0 || stats.Negative != 1 || stats.ByTag[types.VoteTagFalse] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestKarmaRepo_DailyStatAccumulatesPerDay(t *testing.T) {
	db := testDB(t)
	repo := NewKarmaRepo(db, testLogger(t))
	ctx := context.Background()

	user := seedUser(t, db)
	t.Cleanup(func() { db.Where("user_id = ?", user.ID).Delete(&types.DailyKarmaStat{}) })

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if err := repo.AddDailyStat(ctx, nil, user.ID, day, 10); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := repo.AddDailyStat(ctx, nil, user.ID, day, 5); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := repo.AddDailyStat(ctx, nil, user.ID, day.AddDate(0, 0, 1), 3); err != nil {
		t.Fatalf("next-day add: %v", err)
	}

	total, err := repo.SumDailySince(ctx, nil, user.ID, day)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 18 {
		t.Fatalf("sum since day = %d, want 18", total)
	}
	tail, err := repo.SumDailySince(ctx, nil, user.ID, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("tail sum: %v", err)
	}
	if tail != 3 {
		t.Fatalf("sum since next day = %d, want 3", tail)
	}
}

func TestSealRepo_AllocationAndMarkLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewSealRepo(db, testLogger(t))
	ctx := context.Background()

	user := seedUser(t, db)
	post := seedPost(t, db, user)
	ref := types.EntityRef{Type: types.EntityPost, ID: post.ID}
	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&types.SealMark{})
		db.Where("user_id = ?", user.ID).Delete(&types.SealAllocation{})
	})

	if err := repo.SaveAllocation(ctx, nil, &types.SealAllocation{UserID: user.ID, AvailableSeals: 2, TotalEarned: 2}); err != nil {
		t.Fatalf("save allocation: %v", err)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		allocation, err := repo.GetAllocationForUpdate(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		allocation.AvailableSeals--
		allocation.TotalUsed++
		return repo.SaveAllocation(ctx, tx, allocation)
	})
	if err != nil {
		t.Fatalf("locked update: %v", err)
	}
	allocation, err := repo.GetAllocation(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("reload allocation: %v", err)
	}
	if allocation.AvailableSeals != 1 || allocation.TotalUsed != 1 {
		t.Fatalf("allocation = %d available / %d used, want 1/1", allocation.AvailableSeals, allocation.TotalUsed)
	}

	now := time.Now()
	expired := &types.SealMark{UserID: user.ID, EntityType: ref.Type, EntityID: ref.ID, Type: types.SealTypeRecommended, ExpiresAt: now.Add(-time.Hour)}
	if _, err := repo.CreateMark(ctx, nil, expired); err != nil {
		t.Fatalf("create expired mark: %v", err)
	}
	if mark, err := repo.GetActiveMark(ctx, nil, user.ID, ref, types.SealTypeRecommended, now); err != nil || mark != nil {
		t.Fatalf("expired mark should not read as active, got %+v err %v", mark, err)
	}

	live := &types.SealMark{UserID: user.ID, EntityType: ref.Type, EntityID: ref.ID, Type: types.SealTypeRecommended, ExpiresAt: now.Add(time.Hour)}
	if _, err := repo.CreateMark(ctx, nil, live); err != nil {
		t.Fatalf("create live mark: %v", err)
	}
	mark, err := repo.GetActiveMark(ctx, nil, user.ID, ref, types.SealTypeRecommended, now)
	if err != nil {
		t.Fatalf("load active mark: %v", err)
	}
	if mark == nil || mark.ID != live.ID {
		t.Fatalf("unexpected active mark: %+v", mark)
	}
}
