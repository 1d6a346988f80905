package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// KarmaLevel rows are totally ordered by RequiredKarma. A user's level is the
// highest row whose threshold does not exceed their karma.
type KarmaLevel struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`
	Badge         string         `gorm:"column:badge" json:"badge,omitempty"`
	RequiredKarma int            `gorm:"not null;uniqueIndex" json:"required_karma"`
	Benefits      datatypes.JSON `gorm:"column:benefits" json:"benefits,omitempty"`
	SealsPerWeek  int            `gorm:"not null;default:0" json:"seals_per_week"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (KarmaLevel) TableName() string { return "karma_levels" }
