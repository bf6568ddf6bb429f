package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partydeck/mafia-server/internal/dependencies/mocks"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/ban"
	"github.com/partydeck/mafia-server/internal/services/roles"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
	"github.com/partydeck/mafia-server/internal/storage/memory"
	"github.com/partydeck/mafia-server/internal/testutil"
)

type NotifierSuite struct {
	suite.Suite
	registry *session.Registry
	rooms    *room.Controller
	random   *mocks.MockRandom
	notifier *Notifier
	ctx      context.Context
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierSuite))
}

func (s *NotifierSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	ledger := ban.NewLedger(store, clk, logger)
	s.registry = session.NewRegistry(ledger, clk, logger)
	engine := roles.NewEngine(s.random, logger)
	s.rooms = room.NewController(store, engine, clk, s.random, logger)
	s.notifier = NewNotifier(s.registry, s.rooms, logger)
	s.ctx = context.Background()
}

func (s *NotifierSuite) connect(name string) *testutil.FakeConn {
	conn := testutil.NewFakeConn()
	err := s.registry.Register(s.ctx, conn, model.Player{Nickname: model.Nickname(name)}, false)
	s.Require().NoError(err)
	return conn
}

func (s *NotifierSuite) TestUnicastDelivers() {
	conn := testutil.NewFakeConn()
	s.notifier.Unicast(conn, model.NewEnvelope(model.TypePong, nil))

	s.Len(conn.Sent(), 1)
	s.Equal(model.TypePong, conn.Sent()[0].Type)
}

func (s *NotifierSuite) TestUnicastSwallowsSendErrors() {
	conn := testutil.NewFakeConn()
	conn.SendErr = model.ErrUnauthorized // any error will do

	s.NotPanics(func() {
		s.notifier.Unicast(conn, model.NewEnvelope(model.TypePong, nil))
	})
}

func (s *NotifierSuite) TestRoomCastSkipsPlayersWithoutConnections() {
	alice := s.connect("alice")
	s.random.QueueString("ROOM0001")
	r, err := s.rooms.Create(s.ctx, "den", model.Player{Nickname: "alice"}, 4, 8, nil)
	s.Require().NoError(err)
	// A bot on the roster has no session
	_, err = s.rooms.Join(s.ctx, r.ID, model.Player{Nickname: "bot-1", IsBot: true})
	s.Require().NoError(err)

	s.notifier.RoomCast(s.ctx, r.ID, model.NewEnvelope(model.TypeGameEnded, model.AdminActionPayload{Admin: "root"}))

	s.Len(alice.SentOfType(model.TypeGameEnded), 1)
}

func (s *NotifierSuite) TestRoomCastMissingRoomIsNoop() {
	alice := s.connect("alice")

	s.notifier.RoomCast(s.ctx, "NOPE", model.NewEnvelope(model.TypeGameEnded, nil))

	s.Empty(alice.Sent())
}

func (s *NotifierSuite) TestBroadcastReachesEveryConnection() {
	alice := s.connect("alice")
	bob := s.connect("bob")

	s.notifier.Broadcast(model.NewEnvelope(model.TypePong, nil))

	s.Len(alice.Sent(), 1)
	s.Len(bob.Sent(), 1)
}

func (s *NotifierSuite) TestBroadcastRoomListCarriesRooms() {
	alice := s.connect("alice")
	s.random.QueueString("ROOM0001")
	_, err := s.rooms.Create(s.ctx, "den", model.Player{Nickname: "alice"}, 4, 8, nil)
	s.Require().NoError(err)

	s.notifier.BroadcastRoomList(s.ctx)

	env := alice.LastOfType(model.TypeRoomsList)
	s.Require().NotNil(env)

	var payload model.RoomsListPayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Len(payload.Rooms, 1)
	s.Equal("den", payload.Rooms[0].Name)
}
