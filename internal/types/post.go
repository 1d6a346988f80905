package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusExpired   = "expired"
)

type Post struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SubID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sub_id"`
	Sub    *Sub      `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubID;references:ID" json:"sub,omitempty"`

	Title  string `gorm:"not null" json:"title"`
	Body   string `gorm:"column:body" json:"body"`
	Status string `gorm:"not null;default:'published';index" json:"status"` // draft|pending|published|expired

	UpvotesCount   int        `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount int        `gorm:"not null;default:0" json:"downvotes_count"`
	FrontpageAt    *time.Time `gorm:"index" json:"frontpage_at,omitempty"`

	RecommendedSealsCount   int `gorm:"not null;default:0" json:"recommended_seals_count"`
	AdviseAgainstSealsCount int `gorm:"not null;default:0" json:"advise_against_seals_count"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Post) TableName() string { return "posts" }

// Score is the display tally: upvotes minus downvotes.
func (p *Post) Score() int { return p.UpvotesCount - p.DownvotesCount }
