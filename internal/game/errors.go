package game

import "errors"

// Errors reported back to the acting player. All of them are recoverable:
// a rejected command leaves the room untouched and is never broadcast.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomUnavailable   = errors.New("room is full or does not exist")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrMalformedCard     = errors.New("invalid card format")
	ErrCardNotInHand     = errors.New("card not found in hand")
	ErrInvalidLane       = errors.New("invalid lane number")
	ErrPhaseRestriction  = errors.New("phase restriction")
	ErrLaneRule          = errors.New("lane rule violation")
	ErrInvalidAttachment = errors.New("invalid attachment")
	ErrPlayerNotInRoom   = errors.New("player not in this room")
)
