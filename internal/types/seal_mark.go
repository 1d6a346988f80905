package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SealTypeRecommended   = "recommended"
	SealTypeAdviseAgainst = "advise_against"
)

// SealMark is a scarce endorsement/warning mark, independent of votes.
// Marks expire; live queries must filter expires_at > now.
type SealMark struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	EntityType EntityType `gorm:"not null;index:idx_seal_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_seal_entity,priority:2" json:"entity_id"`
	Type       string     `gorm:"not null" json:"type"` // recommended|advise_against
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (SealMark) TableName() string { return "seal_marks" }

// SealAllocation tracks a user's weekly seal budget. AvailableSeals never goes
// negative; the weekly cron resets it to the user's level quota.
type SealAllocation struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AvailableSeals int        `gorm:"not null;default:0" json:"available_seals"`
	TotalEarned    int        `gorm:"not null;default:0" json:"total_earned"`
	TotalUsed      int        `gorm:"not null;default:0" json:"total_used"`
	LastAwardedAt  *time.Time `json:"last_awarded_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SealAllocation) TableName() string { return "user_seal_allocations" }
