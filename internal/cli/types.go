package cli

import "time"

// HealthResult mirrors the health endpoint response
type HealthResult struct {
	Status  string `json:"status"`
	Online  int    `json:"online"`
	Rooms   int    `json:"rooms"`
	Playing int    `json:"playing"`
}

// Player mirrors a seat in a room
type Player struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
	IsBot    bool   `json:"is_bot,omitempty"`
}

// Room mirrors the room resource
type Room struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Creator    Player   `json:"creator"`
	Players    []Player `json:"players"`
	MinPlayers int      `json:"min_players"`
	MaxPlayers int      `json:"max_players"`
	Status     string   `json:"status"`
}

// RoomsResult mirrors the room list response
type RoomsResult struct {
	Rooms []Room `json:"rooms"`
}

// RoomResult mirrors the single room response
type RoomResult struct {
	Room Room `json:"room"`
}

// NicknameResult mirrors the nickname check response
type NicknameResult struct {
	Nickname    string     `json:"nickname"`
	Available   bool       `json:"available"`
	Banned      bool       `json:"banned"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`
}
