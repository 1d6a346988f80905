package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	IsGuest  bool      `gorm:"not null;default:false" json:"is_guest"`
	IsAdmin  bool      `gorm:"not null;default:false" json:"-"`

	// Denormalized totals. The karma_history ledger is the source of truth;
	// these exist for fast reads and are corrected by the reconcile job.
	KarmaPoints   int `gorm:"not null;default:0;index" json:"karma_points"`
	PostsCount    int `gorm:"not null;default:0" json:"posts_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
