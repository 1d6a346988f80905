package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyKarmaStat holds the karma a user earned on a given day. One row per
// (user, day); ranking window queries aggregate this table instead of
// scanning the full ledger.
type DailyKarmaStat struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_daily_karma_user_day,unique,priority:1" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Day         time.Time `gorm:"type:date;not null;index:idx_daily_karma_user_day,unique,priority:2;index" json:"day"`
	KarmaEarned int       `gorm:"not null;default:0" json:"karma_earned"`
}

func (DailyKarmaStat) TableName() string { return "daily_karma_stats" }
