package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	KarmaSourcePostUpvoted      = "post_upvoted"
	KarmaSourcePostDownvoted    = "post_downvoted"
	KarmaSourceCommentUpvoted   = "comment_upvoted"
	KarmaSourceCommentDownvoted = "comment_downvoted"
	KarmaSourceVoteChanged      = "vote_changed"
	KarmaSourceVoteReversed     = "vote_reversed"
	KarmaSourceAchievement      = "achievement_unlocked"
	KarmaSourceEventBonus       = "karma_event_bonus"
)

// KarmaHistory is the append-only karma ledger. The running sum per user is
// denormalized onto users.karma_points; this table stays the source of truth.
type KarmaHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Amount      int       `gorm:"not null" json:"amount"`
	Source      string    `gorm:"not null;index" json:"source"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (KarmaHistory) TableName() string { return "karma_history" }
