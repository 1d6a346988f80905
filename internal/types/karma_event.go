package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	KarmaEventTide  = "tide"
	KarmaEventBoost = "boost"
	KarmaEventSurge = "surge"
	KarmaEventWave  = "wave"
)

// KarmaEvent is a scheduled window during which karma deltas are multiplied.
type KarmaEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Type       string    `gorm:"not null" json:"type"` // tide|boost|surge|wave
	Multiplier float64   `gorm:"not null;default:1" json:"multiplier"`
	StartAt    time.Time `gorm:"not null;index" json:"start_at"`
	EndAt      time.Time `gorm:"not null;index" json:"end_at"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (KarmaEvent) TableName() string { return "karma_events" }

func (e *KarmaEvent) CoversInstant(now time.Time) bool {
	return e.IsActive && !now.Before(e.StartAt) && !now.After(e.EndAt)
}
