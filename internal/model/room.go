package model

import "time"

// RoomID is an opaque unique token identifying a room
type RoomID string

// RoomStatus represents the current state of a room
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // Gathering players
	RoomStatusPlaying RoomStatus = "playing" // Game in progress
)

// Room is a bounded group of players progressing through a
// waiting -> playing lifecycle
type Room struct {
	ID             RoomID     `json:"id"`
	Name           string     `json:"name"`
	Creator        Player     `json:"creator"`
	Players        []Player   `json:"players"` // insertion order = join order
	MinPlayers     int        `json:"min_players"`
	MaxPlayers     int        `json:"max_players"`
	RequestedRoles []RoleKind `json:"requested_roles"`
	Status         RoomStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

// GetPlayer returns the roster entry for the given nickname, or nil
func (r *Room) GetPlayer(nickname Nickname) *Player {
	for i := range r.Players {
		if r.Players[i].Nickname == nickname {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the nickname is on the roster
func (r *Room) HasPlayer(nickname Nickname) bool {
	return r.GetPlayer(nickname) != nil
}

// IsFull reports whether the roster has reached MaxPlayers
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

