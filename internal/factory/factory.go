package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/partydeck/mafia-server/internal/dependencies/clock"
	"github.com/partydeck/mafia-server/internal/dependencies/random"
	"github.com/partydeck/mafia-server/internal/notify"
	"github.com/partydeck/mafia-server/internal/router"
	"github.com/partydeck/mafia-server/internal/services/ban"
	"github.com/partydeck/mafia-server/internal/services/bot"
	"github.com/partydeck/mafia-server/internal/services/roles"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
	"github.com/partydeck/mafia-server/internal/storage"
	"github.com/partydeck/mafia-server/internal/storage/memory"
	redisstorage "github.com/partydeck/mafia-server/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Ledger      *ban.Ledger
	Registry    *session.Registry
	RolesEngine *roles.Engine
	Rooms       *room.Controller
	Bots        *bot.Service
	Notifier    *notify.Notifier
	Router      *router.Router
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// AdminTokenHash is the bcrypt hash admin tokens are checked against
	AdminTokenHash string
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AdminTokenHash, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, adminTokenHash string, logger *slog.Logger) *App {
	ledger := ban.NewLedger(store, clk, logger)
	registry := session.NewRegistry(ledger, clk, logger)
	engine := roles.NewEngine(rnd, logger)
	rooms := room.NewController(store, engine, clk, rnd, logger)
	bots := bot.NewService(rooms, rnd, logger)
	notifier := notify.NewNotifier(registry, rooms, logger)

	messageRouter := router.New(router.Config{
		Registry:       registry,
		Ledger:         ledger,
		Rooms:          rooms,
		Bots:           bots,
		Notifier:       notifier,
		Clock:          clk,
		AdminTokenHash: adminTokenHash,
		Logger:         logger,
	})

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Ledger:      ledger,
		Registry:    registry,
		RolesEngine: engine,
		Rooms:       rooms,
		Bots:        bots,
		Notifier:    notifier,
		Router:      messageRouter,
	}
}
