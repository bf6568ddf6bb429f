package redis

import (
	"fmt"

	"github.com/partydeck/mafia-server/internal/model"
)

// Key prefix for all coordinator data
const keyPrefix = "mafia"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of live room IDs
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// banKey returns the Redis key for a BanRecord
func banKey(nickname model.Nickname) string {
	return fmt.Sprintf("%s:ban:%s", keyPrefix, nickname)
}
