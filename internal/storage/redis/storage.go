package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	// Pipeline the room write with its index entry
	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomIndexKey(), string(room.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ids, err := s.client.SMembers(ctx, roomIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	rooms := make([]*model.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, model.RoomID(id))
		if errors.Is(err, model.ErrRoomNotFound) {
			// Room key expired but index entry lingered; repair the index
			_ = s.client.SRem(ctx, roomIndexKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(id))
	pipe.SRem(ctx, roomIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ban operations

func (s *Storage) SaveBan(ctx context.Context, ban *model.BanRecord) error {
	data, err := json.Marshal(ban)
	if err != nil {
		return err
	}

	// Timed bans get a native TTL so Redis evicts them on its own;
	// permanent bans never expire
	var ttl time.Duration
	if ban.Until != nil {
		ttl = time.Until(*ban.Until)
		if ttl <= 0 {
			// Already expired; don't write a key that would live forever
			return s.client.Del(ctx, banKey(ban.Nickname)).Err()
		}
	}

	return s.client.Set(ctx, banKey(ban.Nickname), data, ttl).Err()
}

func (s *Storage) GetBan(ctx context.Context, nickname model.Nickname) (*model.BanRecord, error) {
	data, err := s.client.Get(ctx, banKey(nickname)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBanNotFound
		}
		return nil, err
	}

	var ban model.BanRecord
	if err := json.Unmarshal(data, &ban); err != nil {
		return nil, err
	}
	return &ban, nil
}

func (s *Storage) DeleteBan(ctx context.Context, nickname model.Nickname) error {
	return s.client.Del(ctx, banKey(nickname)).Err()
}
