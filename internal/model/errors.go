package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrUnauthorized = errors.New("no session for connection")
	ErrForbidden    = errors.New("operation requires admin privileges")
	ErrBanned       = errors.New("nickname is banned")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidRoomConfig  = errors.New("invalid room configuration")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyInRoom      = errors.New("player is already in room")
	ErrNotInRoom          = errors.New("player is not in room")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrNotEnoughPlayers   = errors.New("not enough players for role assignment")

	// Ban errors
	ErrBanNotFound = errors.New("ban record not found")
)
