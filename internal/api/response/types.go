package response

import (
	"time"

	"github.com/partydeck/mafia-server/internal/model"
)

// HealthResponse reports coordinator liveness and headline counters:
// connected players, live rooms, and how many of those are mid-game
type HealthResponse struct {
	Status  string `json:"status"`
	Online  int    `json:"online"`
	Rooms   int    `json:"rooms"`
	Playing int    `json:"playing"`
}

// RoomsResponse lists the live rooms
type RoomsResponse struct {
	Rooms []model.Room `json:"rooms"`
}

// RoomResponse carries a single room
type RoomResponse struct {
	Room model.Room `json:"room"`
}

// NicknameCheckResponse answers a nickname availability probe.
// BannedUntil is set only for timed bans; a banned nickname with no
// BannedUntil is banned permanently.
type NicknameCheckResponse struct {
	Nickname    string     `json:"nickname"`
	Available   bool       `json:"available"`
	Banned      bool       `json:"banned"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`
}
