package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

type levelSpec struct {
	Name          string   `yaml:"name"`
	Badge         string   `yaml:"badge"`
	RequiredKarma int      `yaml:"required_karma"`
	Benefits      []string `yaml:"benefits"`
	SealsPerWeek  int      `yaml:"seals_per_week"`
}

type levelFile struct {
	Levels []levelSpec `yaml:"levels"`
}

// KarmaLevels loads the level table from a YAML file and upserts it. Rerunning
// against an existing table updates thresholds and quotas in place.
func KarmaLevels(ctx context.Context, log *logger.Logger, levelRepo repos.KarmaLevelRepo, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read karma levels file: %w", err)
	}
	var file levelFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse karma levels file: %w", err)
	}
	if len(file.Levels) == 0 {
		return fmt.Errorf("karma levels file %s defines no levels", path)
	}

	for _, spec := range file.Levels {
		benefits, err := json.Marshal(spec.Benefits)
		if err != nil {
			return fmt.Errorf("encode benefits for level %s: %w", spec.Name, err)
		}
		level := &types.KarmaLevel{
			Name:          spec.Name,
			Badge:         spec.Badge,
			RequiredKarma: spec.RequiredKarma,
			Benefits:      datatypes.JSON(benefits),
			SealsPerWeek:  spec.SealsPerWeek,
		}
		if err := levelRepo.Upsert(ctx, nil, level); err != nil {
			return fmt.Errorf("upsert level %s: %w", spec.Name, err)
		}
	}
	log.Info("Karma levels seeded", "count", len(file.Levels))
	return nil
}
