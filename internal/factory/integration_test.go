package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) connect(name string) *testutil.FakeConn {
	conn := testutil.NewFakeConn()
	err := s.app.Registry.Register(s.ctx, conn, model.Player{Nickname: model.Nickname(name)}, false)
	s.Require().NoError(err)
	return conn
}

// Test: a session from room creation through auto-start to teardown
func (s *IntegrationSuite) TestRoomLifecycle() {
	s.app.MockRandom.QueueString("ROOM0001")

	s.connect("alice")
	bobConn := s.connect("bob")

	// Alice creates a room for three
	alice := model.Player{Nickname: "alice"}
	created, err := s.app.Rooms.Create(s.ctx, "midnight", alice, 3, 8, nil)
	s.Require().NoError(err)
	s.Equal(model.RoomID("ROOM0001"), created.ID)
	s.Equal(model.RoomStatusWaiting, created.Status)

	// Bob joins; still below the start threshold
	bob := model.Player{Nickname: "bob"}
	result, err := s.app.Rooms.Join(s.ctx, created.ID, bob)
	s.Require().NoError(err)
	s.False(result.Started)

	// A bot fills the third seat and the game starts
	addedBot, result, err := s.app.Bots.AddToRoom(s.ctx, created.ID, "Ivan")
	s.Require().NoError(err)
	s.True(addedBot.IsBot)
	s.Require().True(result.Started)
	s.Equal(model.RoomStatusPlaying, result.Room.Status)

	// Every seat holds exactly one role
	s.Len(result.Assignment, 3)
	for _, p := range result.Room.Players {
		s.Contains(result.Assignment, p.Nickname)
	}

	// Bob's client goes away; the room survives with two seats
	leave, err := s.app.Rooms.Leave(s.ctx, created.ID, bob.Nickname)
	s.Require().NoError(err)
	s.False(leave.Deleted)
	s.app.Registry.Unregister(bobConn)

	// The remaining players drain out and the room is deleted
	_, err = s.app.Rooms.Leave(s.ctx, created.ID, "Ivan")
	s.Require().NoError(err)
	leave, err = s.app.Rooms.Leave(s.ctx, created.ID, alice.Nickname)
	s.Require().NoError(err)
	s.True(leave.Deleted)

	_, err = s.app.Rooms.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: a ban written by the ledger gates session registration
func (s *IntegrationSuite) TestBanGatesRegistration() {
	conn := s.connect("grief")

	_, err := s.app.Ledger.Ban(s.ctx, "grief", "spam", 2)
	s.Require().NoError(err)
	s.app.Registry.Unregister(conn)

	// Re-registration is rejected while the ban stands
	err = s.app.Registry.Register(s.ctx, testutil.NewFakeConn(), model.Player{Nickname: "grief"}, false)
	s.ErrorIs(err, model.ErrBanned)

	// And allowed once it lapses
	s.app.MockClock.Advance(3 * time.Hour)
	err = s.app.Registry.Register(s.ctx, testutil.NewFakeConn(), model.Player{Nickname: "grief"}, false)
	s.NoError(err)
}
