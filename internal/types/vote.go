package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	VoteTagDidactic    = "didactic"
	VoteTagInteresting = "interesting"
	VoteTagElaborate   = "elaborate"
	VoteTagFunny       = "funny"
	VoteTagIncomplete  = "incomplete"
	VoteTagIrrelevant  = "irrelevant"
	VoteTagFalse       = "false"
	VoteTagOutOfPlace  = "outofplace"
)

// ContentVoteTags is the tag set accepted on post and comment votes.
var ContentVoteTags = map[string]struct{}{
	VoteTagDidactic:    {},
	VoteTagInteresting: {},
	VoteTagElaborate:   {},
	VoteTagFunny:       {},
	VoteTagIncomplete:  {},
	VoteTagIrrelevant:  {},
	VoteTagFalse:       {},
	VoteTagOutOfPlace:  {},
}

// Vote is the single active vote of a voter on an entity. Re-voting updates
// the row in place; no history is kept here.
type Vote struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VoterID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_vote_voter_entity,unique,priority:1" json:"voter_id"`
	Voter      *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:VoterID;references:ID" json:"voter,omitempty"`
	EntityType EntityType `gorm:"not null;index:idx_vote_voter_entity,unique,priority:2;index:idx_vote_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_vote_voter_entity,unique,priority:3;index:idx_vote_entity,priority:2" json:"entity_id"`

	Value int    `gorm:"not null" json:"value"` // +1 | -1
	Tag   string `gorm:"column:tag" json:"tag,omitempty"`

	// KarmaGranted tracks the net karma this vote has contributed to the
	// content author, multipliers included, so removal can reverse the exact
	// recorded amount even after the karma event window has closed.
	KarmaGranted int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Vote) TableName() string { return "votes" }

func (v *Vote) Ref() EntityRef { return EntityRef{Type: v.EntityType, ID: v.EntityID} }
