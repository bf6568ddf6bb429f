package router

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// dispatch parses one frame and routes it by type. Handler errors are
// reported back to the originating connection; they never stop the
// loop.
func (r *Router) dispatch(ctx context.Context, conn model.Conn, data []byte) {
	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.replyErr(conn, errMalformed(err))
		return
	}

	var err error
	switch env.Type {
	case model.TypeUserConnected:
		err = r.handleUserConnected(ctx, conn, env.Data)
	case model.TypePing:
		r.notifier.Unicast(conn, model.NewEnvelope(model.TypePong, nil))
	case model.TypeGetRooms:
		err = r.withUser(conn, func(*session.User) error {
			return r.handleGetRooms(ctx, conn)
		})
	case model.TypeCreateRoom:
		err = r.withUser(conn, func(u *session.User) error {
			return r.handleCreateRoom(ctx, conn, u, env.Data)
		})
	case model.TypeJoinRoom:
		err = r.withUser(conn, func(u *session.User) error {
			return r.handleJoinRoom(ctx, conn, u, env.Data)
		})
	case model.TypeLeaveRoom:
		err = r.withUser(conn, func(u *session.User) error {
			return r.handleLeaveRoom(ctx, u, env.Data)
		})
	case model.TypeChatMessage:
		err = r.withUser(conn, func(u *session.User) error {
			return r.handleChat(ctx, u, env.Data)
		})
	case model.TypeAdminForceStart:
		err = r.withAdmin(conn, func(u *session.User) error {
			return r.handleForceStart(ctx, u)
		})
	case model.TypeAdminAddBot:
		err = r.withAdmin(conn, func(u *session.User) error {
			return r.handleAddBot(ctx, u, env.Data)
		})
	case model.TypeAdminEndGame:
		err = r.withAdmin(conn, func(u *session.User) error {
			return r.handleEndGame(ctx, u)
		})
	case model.TypeAdminKickPlayer:
		err = r.withAdmin(conn, func(u *session.User) error {
			return r.handleKick(ctx, u, env.Data)
		})
	case model.TypeAdminBanPlayer:
		err = r.withAdmin(conn, func(u *session.User) error {
			return r.handleBan(ctx, u, env.Data)
		})
	default:
		r.replyErr(conn, errUnknownType(env.Type))
		return
	}

	if err != nil {
		r.logger.Debug("handler error",
			slog.String("type", string(env.Type)),
			slog.Any("error", err))
		r.replyErr(conn, err)
	}
}

// withUser resolves the sender's session before running the handler
func (r *Router) withUser(conn model.Conn, fn func(*session.User) error) error {
	user, ok := r.registry.Resolve(conn)
	if !ok {
		return model.ErrUnauthorized
	}
	return fn(user)
}

// withAdmin additionally requires the session's admin claim
func (r *Router) withAdmin(conn model.Conn, fn func(*session.User) error) error {
	return r.withUser(conn, func(u *session.User) error {
		if !u.IsAdmin {
			return model.ErrForbidden
		}
		return fn(u)
	})
}

func (r *Router) handleUserConnected(ctx context.Context, conn model.Conn, data []byte) error {
	var payload model.UserConnectedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}
	if payload.User.Nickname == "" {
		return errMissingField("user.nickname")
	}
	// Bots never connect on their own
	payload.User.IsBot = false

	isAdmin := r.verifyAdminToken(payload.AdminToken)
	if err := r.registry.Register(ctx, conn, payload.User, isAdmin); err != nil {
		return err
	}

	// Welcome the session with the current room list
	env, err := r.notifier.RoomListEnvelope(ctx)
	if err != nil {
		return err
	}
	r.notifier.Unicast(conn, env)
	return nil
}

// verifyAdminToken checks a presented token against the configured
// bcrypt hash. No hash configured means no admin sessions.
func (r *Router) verifyAdminToken(token string) bool {
	if token == "" || len(r.adminTokenHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(r.adminTokenHash, []byte(token)) == nil
}

func (r *Router) handleGetRooms(ctx context.Context, conn model.Conn) error {
	env, err := r.notifier.RoomListEnvelope(ctx)
	if err != nil {
		return err
	}
	r.notifier.Unicast(conn, env)
	return nil
}

func (r *Router) handleCreateRoom(ctx context.Context, conn model.Conn, u *session.User, data []byte) error {
	var payload model.CreateRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}
	if payload.Name == "" {
		return errMissingField("name")
	}

	created, err := r.rooms.Create(ctx, payload.Name, u.Player, payload.MinPlayers, payload.MaxPlayers, payload.Roles)
	if err != nil {
		return err
	}

	r.notifier.Unicast(conn, model.NewEnvelope(model.TypeRoomCreated, model.RoomPayload{Room: *created}))
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleJoinRoom(ctx context.Context, conn model.Conn, u *session.User, data []byte) error {
	var payload model.JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}

	result, err := r.rooms.Join(ctx, payload.RoomID, u.Player)
	if err != nil {
		return err
	}

	r.notifier.Unicast(conn, model.NewEnvelope(model.TypeRoomJoined, model.RoomPayload{Room: *result.Room}))
	r.notifier.RosterCast(result.Room, model.NewEnvelope(model.TypePlayerJoined, model.PlayerInRoomPayload{
		Player: u.Player,
		Room:   *result.Room,
	}))
	if result.Started {
		r.announceGameStart(result.Room, result.Assignment)
	}
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

// announceGameStart fans out the start event to the roster and each
// player's private role
func (r *Router) announceGameStart(started *model.Room, assignment model.RoleAssignment) {
	r.notifier.RosterCast(started, model.NewEnvelope(model.TypeGameStarted, model.RoomPayload{Room: *started}))
	for nickname, role := range assignment {
		r.notifier.UnicastTo(nickname, model.NewEnvelope(model.TypeRoleAssigned, model.RoleAssignedPayload{Role: role}))
	}
}

func (r *Router) handleLeaveRoom(ctx context.Context, u *session.User, data []byte) error {
	var payload model.LeaveRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}

	result, err := r.rooms.Leave(ctx, payload.RoomID, u.Player.Nickname)
	if err != nil {
		return err
	}

	if !result.Deleted {
		r.notifier.RosterCast(result.Room, model.NewEnvelope(model.TypePlayerLeft, model.PlayerInRoomPayload{
			Player: u.Player,
			Room:   *result.Room,
		}))
	}
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleChat(ctx context.Context, u *session.User, data []byte) error {
	var payload model.ChatInPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}

	target, err := r.rooms.Get(ctx, payload.RoomID)
	if err != nil {
		return err
	}
	if !target.HasPlayer(u.Player.Nickname) {
		return model.ErrNotInRoom
	}

	r.notifier.RosterCast(target, model.NewEnvelope(model.TypeChatMessage, model.ChatOutPayload{
		Sender:    u.Player.Nickname,
		Message:   payload.Message,
		Timestamp: r.clock.Now(),
	}))
	return nil
}

func (r *Router) handleForceStart(ctx context.Context, u *session.User) error {
	target, err := r.rooms.FindByPlayer(ctx, u.Player.Nickname)
	if err != nil {
		return err
	}

	started, assignment, err := r.rooms.ForceStart(ctx, target.ID)
	if err != nil {
		return err
	}

	r.notifier.RosterCast(started, model.NewEnvelope(model.TypeGameForceStarted, model.AdminActionPayload{Admin: u.Player.Nickname}))
	r.announceGameStart(started, assignment)
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleAddBot(ctx context.Context, u *session.User, data []byte) error {
	var payload model.AddBotPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return errMalformed(err)
		}
	}

	target, err := r.rooms.FindByPlayer(ctx, u.Player.Nickname)
	if err != nil {
		return err
	}

	added, result, err := r.bots.AddToRoom(ctx, target.ID, payload.BotName)
	if err != nil {
		return err
	}

	r.notifier.RosterCast(result.Room, model.NewEnvelope(model.TypeBotAdded, model.BotAddedPayload{
		Bot:  added,
		Room: *result.Room,
	}))
	if result.Started {
		r.announceGameStart(result.Room, result.Assignment)
	}
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleEndGame(ctx context.Context, u *session.User) error {
	target, err := r.rooms.FindByPlayer(ctx, u.Player.Nickname)
	if err != nil {
		return err
	}

	ended, err := r.rooms.EndGame(ctx, target.ID)
	if err != nil {
		return err
	}

	r.notifier.RosterCast(ended, model.NewEnvelope(model.TypeGameEnded, model.AdminActionPayload{Admin: u.Player.Nickname}))
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleKick(ctx context.Context, u *session.User, data []byte) error {
	var payload model.KickPlayerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}
	if payload.Player == "" {
		return errMissingField("player")
	}

	occupied, err := r.rooms.RoomsOf(ctx, payload.Player)
	if err != nil {
		return err
	}
	if len(occupied) == 0 {
		return model.ErrPlayerNotFound
	}

	notice := model.NewEnvelope(model.TypePlayerKicked, model.PlayerKickedPayload{
		Player: payload.Player,
		Admin:  u.Player.Nickname,
		Reason: payload.Reason,
	})
	for _, occupiedRoom := range occupied {
		result, err := r.rooms.Kick(ctx, occupiedRoom.ID, payload.Player)
		if err != nil {
			return err
		}
		if !result.Deleted {
			r.notifier.RosterCast(result.Room, notice)
		}
	}
	// The kicked player gets the notice too; their connection stays open
	r.notifier.UnicastTo(payload.Player, notice)
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

func (r *Router) handleBan(ctx context.Context, u *session.User, data []byte) error {
	var payload model.BanPlayerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errMalformed(err)
	}
	if payload.Player == "" {
		return errMissingField("player")
	}

	if _, err := r.ledger.Ban(ctx, payload.Player, payload.Reason, payload.Duration); err != nil {
		return err
	}

	notice := model.NewEnvelope(model.TypePlayerBanned, model.PlayerBannedPayload{
		Player:   payload.Player,
		Admin:    u.Player.Nickname,
		Reason:   payload.Reason,
		Duration: payload.Duration,
	})

	occupied, err := r.rooms.RoomsOf(ctx, payload.Player)
	if err != nil {
		return err
	}
	for _, occupiedRoom := range occupied {
		result, err := r.rooms.Kick(ctx, occupiedRoom.ID, payload.Player)
		if err != nil {
			return err
		}
		if !result.Deleted {
			r.notifier.RosterCast(result.Room, notice)
		}
	}

	// Tell the banned player, then sever their connection. The read
	// pump's teardown also enqueues a disconnect event; by then the
	// identity occupies no rooms, so it degenerates to an unregister.
	if conn, ok := r.registry.FindConn(payload.Player); ok {
		r.notifier.Unicast(conn, notice)
		r.registry.Unregister(conn)
		_ = conn.Close()
	}
	r.notifier.BroadcastRoomList(ctx)
	return nil
}

// handleDisconnect is the implicit leave: the identity departs every
// room it occupied, then the binding is dropped
func (r *Router) handleDisconnect(ctx context.Context, conn model.Conn) {
	user, ok := r.registry.Resolve(conn)
	if !ok {
		return
	}

	occupied, err := r.rooms.RoomsOf(ctx, user.Player.Nickname)
	if err != nil {
		r.logger.Error("disconnect room scan failed", slog.Any("error", err))
		occupied = nil
	}

	changed := false
	for _, occupiedRoom := range occupied {
		result, err := r.rooms.Leave(ctx, occupiedRoom.ID, user.Player.Nickname)
		if err != nil {
			continue
		}
		changed = true
		if !result.Deleted {
			r.notifier.RosterCast(result.Room, model.NewEnvelope(model.TypePlayerLeft, model.PlayerInRoomPayload{
				Player: user.Player,
				Room:   *result.Room,
			}))
		}
	}

	r.registry.Unregister(conn)
	if changed {
		r.notifier.BroadcastRoomList(ctx)
	}
	r.logger.Info("connection torn down",
		slog.String("nickname", string(user.Player.Nickname)))
}

// replyErr reports a failure to the originating connection
func (r *Router) replyErr(conn model.Conn, err error) {
	r.notifier.Unicast(conn, model.NewEnvelope(model.TypeError, toWirePayload(err)))
}
