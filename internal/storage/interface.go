package storage

import (
	"context"

	"github.com/partydeck/mafia-server/internal/model"
)

// Storage defines the interface for room and ban persistence.
// Connection bindings live only in the session registry and are never
// stored here.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)

	// Ban operations
	SaveBan(ctx context.Context, ban *model.BanRecord) error
	GetBan(ctx context.Context, nickname model.Nickname) (*model.BanRecord, error)
	DeleteBan(ctx context.Context, nickname model.Nickname) error
}
