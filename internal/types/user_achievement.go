package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement records an unlocked achievement. Granting logic lives in an
// external collaborator; rankings only count rows per user.
type UserAchievement struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_achievement,unique,priority:1" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name      string    `gorm:"not null;index:idx_user_achievement,unique,priority:2" json:"name"`
	AwardedAt time.Time `gorm:"not null;default:now();index" json:"awarded_at"`
}

func (UserAchievement) TableName() string { return "user_achievements" }
