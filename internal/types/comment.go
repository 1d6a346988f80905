package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CommentStatusVisible = "visible"
	CommentStatusPending = "pending"
	CommentStatusRemoved = "removed"
)

type Comment struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post   *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"post,omitempty"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	// ParentID is nil for roots. RootID is denormalized so a whole thread can
	// be addressed without walking parents.
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	RootID   *uuid.UUID `gorm:"type:uuid;index" json:"root_id,omitempty"`

	Body   string `gorm:"not null" json:"body"`
	Status string `gorm:"not null;default:'visible';index" json:"status"` // visible|pending|removed

	UpvotesCount   int `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount int `gorm:"not null;default:0" json:"downvotes_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Comment) TableName() string { return "comments" }
