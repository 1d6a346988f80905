package services

import "errors"

// Business-rule errors. Handlers map these to status codes; anything else is
// a 500 with a sanitized message.
var (
	ErrValidation           = errors.New("validation failed")
	ErrVoteValue            = errors.New("vote value must be +1 or -1")
	ErrVoteTag              = errors.New("vote tag not valid for this entity")
	ErrAgeExceeded          = errors.New("voting window for this content has closed")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrNoSealsAvailable     = errors.New("no seals available")
	ErrCannotMarkOwnContent = errors.New("cannot mark own content")
	ErrAlreadyMarked        = errors.New("already marked")
	ErrMarkNotFound         = errors.New("mark not found")
	ErrAlreadyExists        = errors.New("already exists")
)
