package service

import "errors"

// Validation errors: malformed input, nothing mutated.
var (
	ErrNameRequired   = errors.New("name is required")
	ErrEmptyReview    = errors.New("review is empty")
	ErrTextTooLong    = errors.New("review exceeds the character limit")
	ErrInvalidRatings = errors.New("every review must be rated 1-5")
)

// Precondition errors: request arrived in the wrong state, nothing mutated.
var (
	ErrNotHost          = errors.New("host only")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrRoomFull         = errors.New("room is full")
	ErrGameStarted      = errors.New("game already started")
	ErrNameTaken        = errors.New("name already exists")
	ErrNotEnoughPlayers = errors.New("at least 2 players required")
	ErrNotInRoom        = errors.New("player not in room")
)

// Lookup errors. ErrRoomClosed is distinct from ErrRoomNotFound so clients can
// show "room closed" when the host left rather than a generic not-found.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomClosed   = errors.New("host left, room closed")
)
