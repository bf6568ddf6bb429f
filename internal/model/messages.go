package model

import (
	"encoding/json"
	"time"
)

// MessageType discriminates wire messages in both directions
type MessageType string

// Inbound message types
const (
	TypeUserConnected   MessageType = "user_connected"
	TypePing            MessageType = "ping"
	TypeGetRooms        MessageType = "get_rooms"
	TypeCreateRoom      MessageType = "create_room"
	TypeJoinRoom        MessageType = "join_room"
	TypeLeaveRoom       MessageType = "leave_room"
	TypeChatMessage     MessageType = "chat_message"
	TypeAdminForceStart MessageType = "admin_force_start"
	TypeAdminAddBot     MessageType = "admin_add_bot"
	TypeAdminEndGame    MessageType = "admin_end_game"
	TypeAdminKickPlayer MessageType = "admin_kick_player"
	TypeAdminBanPlayer  MessageType = "admin_ban_player"
)

// Outbound message types
const (
	TypeRoomsList        MessageType = "rooms_list"
	TypeRoomCreated      MessageType = "room_created"
	TypeRoomJoined       MessageType = "room_joined"
	TypePlayerJoined     MessageType = "player_joined"
	TypePlayerLeft       MessageType = "player_left"
	TypeGameStarted      MessageType = "game_started"
	TypeRoleAssigned     MessageType = "role_assigned"
	TypeGameForceStarted MessageType = "game_force_started"
	TypeBotAdded         MessageType = "bot_added"
	TypeGameEnded        MessageType = "game_ended"
	TypePlayerKicked     MessageType = "player_kicked"
	TypePlayerBanned     MessageType = "player_banned"
	TypePong             MessageType = "pong"
	TypeError            MessageType = "error"
)

// Envelope is the frame every wire message travels in
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps a payload in an Envelope, marshaling it to JSON.
// Marshal failures are programmer errors on our own payload types, so
// they panic rather than return.
func NewEnvelope(t MessageType, payload any) Envelope {
	env := Envelope{Type: t}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			panic("model: unmarshalable outbound payload: " + err.Error())
		}
		env.Data = data
	}
	return env
}

// Inbound payloads

type UserConnectedPayload struct {
	User       Player `json:"user"`
	AdminToken string `json:"admin_token,omitempty"`
}

type CreateRoomPayload struct {
	Name       string     `json:"name"`
	MinPlayers int        `json:"min_players"`
	MaxPlayers int        `json:"max_players"`
	Roles      []RoleKind `json:"roles"`
}

type JoinRoomPayload struct {
	RoomID RoomID `json:"room_id"`
}

type LeaveRoomPayload struct {
	RoomID RoomID `json:"room_id"`
}

type ChatInPayload struct {
	RoomID  RoomID `json:"room_id"`
	Message string `json:"message"`
}

type AddBotPayload struct {
	BotName string `json:"bot_name,omitempty"`
}

type KickPlayerPayload struct {
	Player Nickname `json:"player"`
	Reason string   `json:"reason,omitempty"`
}

type BanPlayerPayload struct {
	Player   Nickname `json:"player"`
	Reason   string   `json:"reason,omitempty"`
	Duration int      `json:"duration,omitempty"` // hours; <= 0 is permanent
}

// Outbound payloads

type RoomsListPayload struct {
	Rooms []Room `json:"rooms"`
}

type RoomPayload struct {
	Room Room `json:"room"`
}

type PlayerInRoomPayload struct {
	Player Player `json:"player"`
	Room   Room   `json:"room"`
}

type ChatOutPayload struct {
	Sender    Nickname  `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type RoleAssignedPayload struct {
	Role RoleKind `json:"role"`
}

type AdminActionPayload struct {
	Admin Nickname `json:"admin"`
}

type BotAddedPayload struct {
	Bot  Player `json:"bot"`
	Room Room   `json:"room"`
}

type PlayerKickedPayload struct {
	Player Nickname `json:"player"`
	Admin  Nickname `json:"admin"`
	Reason string   `json:"reason,omitempty"`
}

type PlayerBannedPayload struct {
	Player   Nickname `json:"player"`
	Admin    Nickname `json:"admin"`
	Reason   string   `json:"reason,omitempty"`
	Duration int      `json:"duration"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
