package store

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateTitle = errors.New("event with the same title already exists")
	ErrAlreadyJoined  = errors.New("user has already joined this event")
)
