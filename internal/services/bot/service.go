package bot

import (
	"context"
	"log/slog"

	"github.com/partydeck/mafia-server/internal/dependencies/random"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/room"
)

const (
	// NameSuffixLength is the length of the random suffix on generated bot names
	NameSuffixLength = 4
	// NameSuffixAlphabet is the character set for generated bot name suffixes
	NameSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// Avatar is the avatar every bot carries
	Avatar = "bot"
)

// Service creates bot players and seats them in rooms. Bots never hold
// a session, so the fan-out naturally skips them.
type Service struct {
	rooms  *room.Controller
	random random.Random
	logger *slog.Logger
}

// NewService creates a bot Service
func NewService(rooms *room.Controller, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		rooms:  rooms,
		random: rnd,
		logger: logger.With(slog.String("component", "bot")),
	}
}

// AddToRoom seats a bot in the room, generating a name when none is
// given. The join follows normal join semantics, including the
// auto-start rule.
func (s *Service) AddToRoom(ctx context.Context, roomID model.RoomID, botName string) (model.Player, *room.JoinResult, error) {
	if botName == "" {
		botName = "Bot-" + s.random.String(NameSuffixLength, NameSuffixAlphabet)
	}

	bot := model.Player{
		Nickname: model.Nickname(botName),
		Avatar:   Avatar,
		IsBot:    true,
	}

	result, err := s.rooms.Join(ctx, roomID, bot)
	if err != nil {
		return model.Player{}, nil, err
	}

	s.logger.Info("bot added",
		slog.String("room", string(roomID)),
		slog.String("bot", botName))
	return bot, result, nil
}
