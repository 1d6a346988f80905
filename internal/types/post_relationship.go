package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RelationshipReply        = "reply"
	RelationshipContinuation = "continuation"
	RelationshipRelated      = "related"
	RelationshipUpdate       = "update"
	RelationshipCorrection   = "correction"
	RelationshipDuplicate    = "duplicate"
)

var RelationshipTypes = map[string]struct{}{
	RelationshipReply:        {},
	RelationshipContinuation: {},
	RelationshipRelated:      {},
	RelationshipUpdate:       {},
	RelationshipCorrection:   {},
	RelationshipDuplicate:    {},
}

// PostRelationship is a scored edge between two posts with its own vote tally.
type PostRelationship struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID        uuid.UUID `gorm:"type:uuid;not null;index:idx_post_relationship,unique,priority:1" json:"post_id"`
	Post          *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"post,omitempty"`
	RelatedPostID uuid.UUID `gorm:"type:uuid;not null;index:idx_post_relationship,unique,priority:2" json:"related_post_id"`
	RelatedPost   *Post     `gorm:"constraint:OnDelete:CASCADE;foreignKey:RelatedPostID;references:ID" json:"related_post,omitempty"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Type string `gorm:"not null;index:idx_post_relationship,unique,priority:3" json:"type"`

	UpvotesCount   int `gorm:"not null;default:0" json:"upvotes_count"`
	DownvotesCount int `gorm:"not null;default:0" json:"downvotes_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PostRelationship) TableName() string { return "post_relationships" }

func (r *PostRelationship) Score() int { return r.UpvotesCount - r.DownvotesCount }
