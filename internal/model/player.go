package model

// Nickname uniquely identifies a player across the system.
// Comparison is case-sensitive.
type Nickname string

// Player represents a connected participant or a bot
type Player struct {
	Nickname Nickname `json:"nickname"`
	Avatar   string   `json:"avatar"`
	IsBot    bool     `json:"is_bot"`
}
