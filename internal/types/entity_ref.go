package types

import "github.com/google/uuid"

type EntityType string

const (
	EntityPost         EntityType = "post"
	EntityComment      EntityType = "comment"
	EntityRelationship EntityType = "relationship"
)

// EntityRef is the discriminated reference used by votes and seal marks to
// attach to any content variant without inheritance.
type EntityRef struct {
	Type EntityType
	ID   uuid.UUID
}
