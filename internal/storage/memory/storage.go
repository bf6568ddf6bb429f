package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms map[model.RoomID]*model.Room
	bans  map[model.Nickname]*model.BanRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms: make(map[model.RoomID]*model.Room),
		bans:  make(map[model.Nickname]*model.BanRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// copyRoom deep-copies a room so callers never share mutable state
// with the store. The redis backend gets this for free from its JSON
// round-trip; here it has to be explicit, or a reader snapshotting the
// roster races a writer appending to it.
func copyRoom(room *model.Room) *model.Room {
	out := *room
	out.Players = append([]model.Player(nil), room.Players...)
	out.RequestedRoles = append([]model.RoleKind(nil), room.RequestedRoles...)
	return &out
}

func copyBan(ban *model.BanRecord) *model.BanRecord {
	out := *ban
	if ban.Until != nil {
		until := *ban.Until
		out.Until = &until
	}
	return &out
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, copyRoom(room))
	}
	// Stable ordering for list views
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

// Ban operations

func (s *Storage) SaveBan(ctx context.Context, ban *model.BanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[ban.Nickname] = copyBan(ban)
	return nil
}

func (s *Storage) GetBan(ctx context.Context, nickname model.Nickname) (*model.BanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ban, ok := s.bans[nickname]
	if !ok {
		return nil, model.ErrBanNotFound
	}
	return copyBan(ban), nil
}

func (s *Storage) DeleteBan(ctx context.Context, nickname model.Nickname) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bans, nickname)
	return nil
}
