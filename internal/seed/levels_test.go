package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/types"
)

type recordingLevelRepo struct {
	upserts []*types.KarmaLevel
}

func (r *recordingLevelRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.KarmaLevel, error) {
	return r.upserts, nil
}

func (r *recordingLevelRepo) Upsert(ctx context.Context, tx *gorm.DB, level *types.KarmaLevel) error {
	r.upserts = append(r.upserts, level)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestKarmaLevels_ParsesAndUpserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	content := `levels:
  - name: Novato
    badge: "b1"
    required_karma: 0
    benefits: [vote]
    seals_per_week: 0
  - name: Sabio
    badge: "b2"
    required_karma: 10000
    benefits: [vote, curate_frontpage]
    seals_per_week: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo := &recordingLevelRepo{}
	if err := KarmaLevels(context.Background(), testLogger(t), repo, path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(repo.upserts))
	}
	sabio := repo.upserts[1]
	if sabio.Name != "Sabio" || sabio.RequiredKarma != 10000 || sabio.SealsPerWeek != 10 {
		t.Fatalf("unexpected level: %+v", sabio)
	}
	if string(sabio.Benefits) != `["vote","curate_frontpage"]` {
		t.Fatalf("benefits not encoded as JSON: %s", sabio.Benefits)
	}
}

func TestKarmaLevels_RejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	if err := os.WriteFile(path, []byte("levels: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := KarmaLevels(context.Background(), testLogger(t), &recordingLevelRepo{}, path); err == nil {
		t.Fatalf("expected an error for an empty level table")
	}
}

func TestKarmaLevels_MissingFile(t *testing.T) {
	err := KarmaLevels(context.Background(), testLogger(t), &recordingLevelRepo{}, "/does/not/exist.yaml")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
