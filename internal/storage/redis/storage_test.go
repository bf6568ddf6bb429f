package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/partydeck/mafia-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) room(id model.RoomID, createdAt time.Time) *model.Room {
	return &model.Room{
		ID:         id,
		Name:       "midnight",
		Creator:    model.Player{Nickname: "alice"},
		Players:    []model.Player{{Nickname: "alice", Avatar: "wolf"}},
		MinPlayers: 3,
		MaxPlayers: 8,
		Status:     model.RoomStatusWaiting,
		CreatedAt:  createdAt,
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.room("ROOM0001", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ROOM0001")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.Players, retrieved.Players)
	s.Equal(room.Status, retrieved.Status)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ROOM0001")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, s.room("ROOM0001", time.Now()))

	exists, err = s.storage.RoomExists(s.ctx, "ROOM0001")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestListRoomsCreationOrder() {
	base := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	_ = s.storage.SaveRoom(s.ctx, s.room("ROOMBBBB", base.Add(time.Minute)))
	_ = s.storage.SaveRoom(s.ctx, s.room("ROOMAAAA", base))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("ROOMAAAA"), rooms[0].ID)
	s.Equal(model.RoomID("ROOMBBBB"), rooms[1].ID)
}

func (s *StorageSuite) TestDeleteRoomRemovesIndexEntry() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ROOM0001", time.Now()))

	err := s.storage.DeleteRoom(s.ctx, "ROOM0001")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "ROOM0001")
	s.ErrorIs(err, model.ErrRoomNotFound)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestListRepairsIndexAfterExpiry() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ROOM0001", time.Now()))

	// Let the room key expire while its index entry lingers
	s.mini.FastForward(2 * time.Hour)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)

	// The repair removed the stale index entry
	s.False(s.mini.Exists("mafia:idx:rooms"))
}

func (s *StorageSuite) TestSaveRoomOverwrites() {
	room := s.room("ROOM0001", time.Now())
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Status = model.RoomStatusPlaying
	room.Players = append(room.Players, model.Player{Nickname: "bob"})
	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ROOM0001")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusPlaying, retrieved.Status)
	s.Len(retrieved.Players, 2)
}

// Ban tests

func (s *StorageSuite) TestSaveAndGetPermanentBan() {
	ban := &model.BanRecord{
		Nickname:  "grief",
		Reason:    "spam",
		CreatedAt: time.Now().UTC(),
	}

	err := s.storage.SaveBan(s.ctx, ban)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetBan(s.ctx, "grief")
	s.Require().NoError(err)
	s.Nil(retrieved.Until)
	s.Equal("spam", retrieved.Reason)

	// No TTL on a permanent ban
	s.Equal(time.Duration(0), s.mini.TTL("mafia:ban:grief"))
}

func (s *StorageSuite) TestTimedBanExpiresNatively() {
	until := time.Now().Add(time.Hour)
	ban := &model.BanRecord{
		Nickname: "afk",
		Until:    &until,
	}

	err := s.storage.SaveBan(s.ctx, ban)
	s.Require().NoError(err)

	_, err = s.storage.GetBan(s.ctx, "afk")
	s.Require().NoError(err)

	s.mini.FastForward(2 * time.Hour)

	_, err = s.storage.GetBan(s.ctx, "afk")
	s.ErrorIs(err, model.ErrBanNotFound)
}

func (s *StorageSuite) TestSaveAlreadyExpiredBanClearsKey() {
	until := time.Now().Add(time.Hour)
	_ = s.storage.SaveBan(s.ctx, &model.BanRecord{Nickname: "afk", Until: &until})

	past := time.Now().Add(-time.Hour)
	err := s.storage.SaveBan(s.ctx, &model.BanRecord{Nickname: "afk", Until: &past})
	s.Require().NoError(err)

	_, err = s.storage.GetBan(s.ctx, "afk")
	s.ErrorIs(err, model.ErrBanNotFound)
}

func (s *StorageSuite) TestGetBanNotFound() {
	_, err := s.storage.GetBan(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrBanNotFound)
}

func (s *StorageSuite) TestDeleteBan() {
	_ = s.storage.SaveBan(s.ctx, &model.BanRecord{Nickname: "grief"})

	err := s.storage.DeleteBan(s.ctx, "grief")
	s.Require().NoError(err)

	_, err = s.storage.GetBan(s.ctx, "grief")
	s.ErrorIs(err, model.ErrBanNotFound)
}

func (s *StorageSuite) TestDeleteBanMissingIsNoop() {
	s.NoError(s.storage.DeleteBan(s.ctx, "nobody"))
}
