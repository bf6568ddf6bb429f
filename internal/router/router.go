package router

import (
	"context"
	"log/slog"

	"github.com/partydeck/mafia-server/internal/dependencies/clock"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/notify"
	"github.com/partydeck/mafia-server/internal/services/ban"
	"github.com/partydeck/mafia-server/internal/services/bot"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// queueSize bounds the inbound event queue. Enqueue blocks when it
// fills, which backpressures the websocket read pumps.
const queueSize = 256

// event is one unit of work for the router loop: either an inbound
// frame or a connection teardown.
type event struct {
	conn model.Conn
	data []byte
	gone bool
}

// Router dispatches inbound messages to handlers. All state-changing
// events are applied by a single goroutine (Run), so read-modify-write
// sequences across the registry, room store and ban ledger need no
// cross-store locking and every room observes events in arrival order.
type Router struct {
	registry *session.Registry
	ledger   *ban.Ledger
	rooms    *room.Controller
	bots     *bot.Service
	notifier *notify.Notifier
	clock    clock.Clock
	logger   *slog.Logger

	// adminTokenHash is the bcrypt hash admin tokens are checked
	// against at connect time; empty disables admin grants entirely
	adminTokenHash []byte

	events chan event
}

// Config holds the router's collaborators
type Config struct {
	Registry       *session.Registry
	Ledger         *ban.Ledger
	Rooms          *room.Controller
	Bots           *bot.Service
	Notifier       *notify.Notifier
	Clock          clock.Clock
	AdminTokenHash string
	Logger         *slog.Logger
}

// New creates a Router
func New(cfg Config) *Router {
	return &Router{
		registry:       cfg.Registry,
		ledger:         cfg.Ledger,
		rooms:          cfg.Rooms,
		bots:           cfg.Bots,
		notifier:       cfg.Notifier,
		clock:          cfg.Clock,
		logger:         cfg.Logger.With(slog.String("component", "router")),
		adminTokenHash: []byte(cfg.AdminTokenHash),
		events:         make(chan event, queueSize),
	}
}

// Run processes events until the context is cancelled. It is the only
// goroutine that mutates coordinator state.
func (r *Router) Run(ctx context.Context) {
	r.logger.Info("router started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("router stopped")
			return
		case ev := <-r.events:
			if ev.gone {
				r.handleDisconnect(ctx, ev.conn)
			} else {
				r.dispatch(ctx, ev.conn, ev.data)
			}
		}
	}
}

// HandleMessage enqueues an inbound frame from a connection
func (r *Router) HandleMessage(conn model.Conn, data []byte) {
	r.events <- event{conn: conn, data: data}
}

// Disconnected enqueues a connection teardown. The router treats it as
// an implicit leave from every room the identity occupied.
func (r *Router) Disconnected(conn model.Conn) {
	r.events <- event{conn: conn, gone: true}
}
