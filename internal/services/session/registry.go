package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/partydeck/mafia-server/internal/dependencies/clock"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/ban"
)

// User is a registered session: the binding of a live connection to an
// ephemeral identity. IsAdmin is a claim granted at connect time, not a
// property of the nickname.
type User struct {
	Player      model.Player
	IsAdmin     bool
	ConnectedAt time.Time
}

// Registry owns the connection <-> nickname binding. Rooms copy player
// identity by value, so removing a binding never cascades into rosters.
type Registry struct {
	ledger *ban.Ledger
	clock  clock.Clock
	logger *slog.Logger

	mu          sync.RWMutex
	byConn      map[model.Conn]*User
	connsByNick map[model.Nickname]model.Conn
}

// NewRegistry creates a session Registry
func NewRegistry(ledger *ban.Ledger, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		ledger:      ledger,
		clock:       clk,
		logger:      logger.With(slog.String("component", "session")),
		byConn:      make(map[model.Conn]*User),
		connsByNick: make(map[model.Nickname]model.Conn),
	}
}

// Register binds a connection to a player identity. An active ban for
// the nickname rejects the registration with ErrBanned (the ban check
// purges expired records as a side effect). A nickname already bound to
// another connection is rebound: last writer wins.
func (r *Registry) Register(ctx context.Context, conn model.Conn, player model.Player, isAdmin bool) error {
	banned, err := r.ledger.IsBanned(ctx, player.Nickname)
	if err != nil {
		return err
	}
	if banned != nil {
		return model.ErrBanned
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Drop any stale binding for this nickname
	if prev, ok := r.connsByNick[player.Nickname]; ok && prev != conn {
		delete(r.byConn, prev)
	}
	// A connection re-registering under a new nickname releases its
	// old one
	if prevUser, ok := r.byConn[conn]; ok && prevUser.Player.Nickname != player.Nickname {
		if cur, ok := r.connsByNick[prevUser.Player.Nickname]; ok && cur == conn {
			delete(r.connsByNick, prevUser.Player.Nickname)
		}
	}

	r.byConn[conn] = &User{
		Player:      player,
		IsAdmin:     isAdmin,
		ConnectedAt: r.clock.Now(),
	}
	r.connsByNick[player.Nickname] = conn

	r.logger.Info("session registered",
		slog.String("nickname", string(player.Nickname)),
		slog.Bool("admin", isAdmin))
	return nil
}

// Resolve returns the session bound to a connection, if any
func (r *Registry) Resolve(conn model.Conn) (*User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byConn[conn]
	return user, ok
}

// FindConn returns the unique connection bound to a nickname, if any
func (r *Registry) FindConn(nickname model.Nickname) (model.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.connsByNick[nickname]
	return conn, ok
}

// Unregister removes a connection's binding. Idempotent.
func (r *Registry) Unregister(conn model.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byConn[conn]
	if !ok {
		return
	}
	delete(r.byConn, conn)
	// Only clear the nickname index if it still points at this
	// connection; a later register may have rebound it
	if cur, ok := r.connsByNick[user.Player.Nickname]; ok && cur == conn {
		delete(r.connsByNick, user.Player.Nickname)
	}

	r.logger.Info("session unregistered",
		slog.String("nickname", string(user.Player.Nickname)))
}

// Conns returns a snapshot of every registered connection
func (r *Registry) Conns() []model.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]model.Conn, 0, len(r.byConn))
	for conn := range r.byConn {
		conns = append(conns, conn)
	}
	return conns
}

// OnlineCount returns the number of live sessions
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// NicknameInUse reports whether a nickname is currently bound
func (r *Registry) NicknameInUse(nickname model.Nickname) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.connsByNick[nickname]
	return ok
}
