package notify

import (
	"context"
	"log/slog"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// Notifier fans outbound messages out to connections. Every shape is
// fire-and-forget: a failed send is logged and dropped, never retried.
type Notifier struct {
	registry *session.Registry
	rooms    *room.Controller
	logger   *slog.Logger
}

// NewNotifier creates a Notifier
func NewNotifier(registry *session.Registry, rooms *room.Controller, logger *slog.Logger) *Notifier {
	return &Notifier{
		registry: registry,
		rooms:    rooms,
		logger:   logger.With(slog.String("component", "notify")),
	}
}

// Unicast delivers to a single connection if it is still open
func (n *Notifier) Unicast(conn model.Conn, env model.Envelope) {
	if conn == nil {
		return
	}
	if err := conn.Send(env); err != nil {
		n.logger.Debug("unicast dropped",
			slog.String("type", string(env.Type)),
			slog.Any("error", err))
	}
}

// UnicastTo delivers to the connection bound to a nickname, if any
func (n *Notifier) UnicastTo(nickname model.Nickname, env model.Envelope) {
	if conn, ok := n.registry.FindConn(nickname); ok {
		n.Unicast(conn, env)
	}
}

// RoomCast delivers to every roster member of a room, resolving each
// nickname through the session registry. Players without a live
// connection (bots, dropped sockets) are skipped silently.
func (n *Notifier) RoomCast(ctx context.Context, roomID model.RoomID, env model.Envelope) {
	r, err := n.rooms.Get(ctx, roomID)
	if err != nil {
		n.logger.Debug("room-cast to missing room",
			slog.String("room", string(roomID)),
			slog.String("type", string(env.Type)))
		return
	}
	n.RosterCast(r, env)
}

// RosterCast delivers to every member of an already-loaded room
func (n *Notifier) RosterCast(r *model.Room, env model.Envelope) {
	for _, p := range r.Players {
		n.UnicastTo(p.Nickname, env)
	}
}

// Broadcast delivers to every open connection
func (n *Notifier) Broadcast(env model.Envelope) {
	for _, conn := range n.registry.Conns() {
		n.Unicast(conn, env)
	}
}

// BroadcastRoomList pushes the derived public room list to every
// connection. Called after any mutation that changes room existence or
// membership.
func (n *Notifier) BroadcastRoomList(ctx context.Context) {
	env, err := n.RoomListEnvelope(ctx)
	if err != nil {
		n.logger.Error("room list broadcast failed", slog.Any("error", err))
		return
	}
	n.Broadcast(env)
}

// RoomListEnvelope builds the rooms_list message from current state
func (n *Notifier) RoomListEnvelope(ctx context.Context) (model.Envelope, error) {
	rooms, err := n.rooms.List(ctx)
	if err != nil {
		return model.Envelope{}, err
	}
	payload := model.RoomsListPayload{Rooms: make([]model.Room, 0, len(rooms))}
	for _, r := range rooms {
		payload.Rooms = append(payload.Rooms, *r)
	}
	return model.NewEnvelope(model.TypeRoomsList, payload), nil
}
