package room

import (
	"context"
	"log/slog"

	"github.com/partydeck/mafia-server/internal/dependencies/clock"
	"github.com/partydeck/mafia-server/internal/dependencies/random"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/roles"
	"github.com/partydeck/mafia-server/internal/storage"
)

const (
	// RoomIDLength is the length of generated room IDs
	RoomIDLength = 8
	// RoomIDAlphabet is the characters used in room IDs (avoid confusing chars)
	RoomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// JoinResult describes what a successful join did. Assignment is only
// set when the join triggered the auto-start transition.
type JoinResult struct {
	Room       *model.Room
	Started    bool
	Assignment model.RoleAssignment
}

// LeaveResult describes what a successful leave/kick did
type LeaveResult struct {
	Room    *model.Room // nil when the room was deleted
	Deleted bool
}

// Controller owns room entities and their waiting -> playing lifecycle.
// Callers must serialize state-changing calls (the message router's
// event loop does this). Reads are safe concurrently because every
// storage backend hands out copies, never live room state.
type Controller struct {
	storage storage.Storage
	engine  *roles.Engine
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a room Controller
func NewController(
	store storage.Storage,
	engine *roles.Engine,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: store,
		engine:  engine,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// Create makes a new waiting room with the creator as its first player
func (c *Controller) Create(
	ctx context.Context,
	name string,
	creator model.Player,
	minPlayers, maxPlayers int,
	requestedRoles []model.RoleKind,
) (*model.Room, error) {
	// Role assignment needs at least two players, so a room that could
	// never legally start is rejected up front. MaxPlayers below
	// MinPlayers is allowed: such rooms fill up and wait for an admin
	// force-start.
	if minPlayers < roles.MinAssignablePlayers || maxPlayers < roles.MinAssignablePlayers {
		return nil, model.ErrInvalidRoomConfig
	}

	// Generate a unique room ID
	var id model.RoomID
	for {
		id = model.RoomID(c.random.String(RoomIDLength, RoomIDAlphabet))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		ID:             id,
		Name:           name,
		Creator:        creator,
		Players:        []model.Player{creator},
		MinPlayers:     minPlayers,
		MaxPlayers:     maxPlayers,
		RequestedRoles: requestedRoles,
		Status:         model.RoomStatusWaiting,
		CreatedAt:      c.clock.Now(),
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room", string(id)),
		slog.String("creator", string(creator.Nickname)))
	return room, nil
}

// Get retrieves a room by ID
func (c *Controller) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// List returns every live room in creation order
func (c *Controller) List(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx)
}

// FindByPlayer returns the oldest room whose roster contains the
// nickname, or ErrNotInRoom
func (c *Controller) FindByPlayer(ctx context.Context, nickname model.Nickname) (*model.Room, error) {
	rooms, err := c.RoomsOf(ctx, nickname)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, model.ErrNotInRoom
	}
	return rooms[0], nil
}

// RoomsOf returns every room whose roster contains the nickname, in
// creation order
func (c *Controller) RoomsOf(ctx context.Context, nickname model.Nickname) ([]*model.Room, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	var occupied []*model.Room
	for _, room := range rooms {
		if room.HasPlayer(nickname) {
			occupied = append(occupied, room)
		}
	}
	return occupied, nil
}

// Join appends a player to a waiting room's roster and evaluates the
// auto-start rule: reaching MinPlayers transitions the room to playing
// and deals roles immediately, with no admin action required.
func (c *Controller) Join(ctx context.Context, id model.RoomID, player model.Player) (*JoinResult, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.Status != model.RoomStatusWaiting {
		return nil, model.ErrGameAlreadyStarted
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}
	if room.HasPlayer(player.Nickname) {
		return nil, model.ErrAlreadyInRoom
	}

	room.Players = append(room.Players, player)

	result := &JoinResult{Room: room}
	if len(room.Players) >= room.MinPlayers {
		assignment, err := c.engine.Assign(room.Players, room.RequestedRoles)
		if err != nil {
			return nil, err
		}
		room.Status = model.RoomStatusPlaying
		result.Started = true
		result.Assignment = assignment
		c.logger.Info("room auto-started",
			slog.String("room", string(id)),
			slog.Int("players", len(room.Players)))
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return result, nil
}

// Leave removes a player from a room's roster. The room is deleted
// when its last player departs; otherwise it keeps its current status
// (leaving mid-game does not revert playing to waiting).
func (c *Controller) Leave(ctx context.Context, id model.RoomID, nickname model.Nickname) (*LeaveResult, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !room.HasPlayer(nickname) {
		return nil, model.ErrNotInRoom
	}

	for i, p := range room.Players {
		if p.Nickname == nickname {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return nil, err
		}
		c.logger.Info("room deleted", slog.String("room", string(id)))
		return &LeaveResult{Deleted: true}, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return &LeaveResult{Room: room}, nil
}

// ForceStart transitions a waiting room to playing regardless of
// MinPlayers and deals roles. Privileged.
func (c *Controller) ForceStart(ctx context.Context, id model.RoomID) (*model.Room, model.RoleAssignment, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if room.Status != model.RoomStatusWaiting {
		return nil, nil, model.ErrGameAlreadyStarted
	}

	assignment, err := c.engine.Assign(room.Players, room.RequestedRoles)
	if err != nil {
		return nil, nil, err
	}

	room.Status = model.RoomStatusPlaying
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, nil, err
	}

	c.logger.Info("room force-started",
		slog.String("room", string(id)),
		slog.Int("players", len(room.Players)))
	return room, assignment, nil
}

// EndGame transitions a playing room back to waiting. Prior role
// assignments are not cleared; they were never stored. Privileged.
func (c *Controller) EndGame(ctx context.Context, id model.RoomID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.Status != model.RoomStatusPlaying {
		return nil, model.ErrGameNotStarted
	}

	room.Status = model.RoomStatusWaiting
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game ended", slog.String("room", string(id)))
	return room, nil
}

// Kick removes a player from a roster with Leave semantics. The ban
// and notification side effects live with the caller.
func (c *Controller) Kick(ctx context.Context, id model.RoomID, nickname model.Nickname) (*LeaveResult, error) {
	return c.Leave(ctx, id, nickname)
}
