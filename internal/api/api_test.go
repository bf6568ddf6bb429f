package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/mafia-server/internal/api"
	"github.com/partydeck/mafia-server/internal/api/response"
	"github.com/partydeck/mafia-server/internal/factory"
	"github.com/partydeck/mafia-server/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Rooms:    app.Rooms,
		Ledger:   app.Ledger,
		// The realtime protocol is not under test here
		WebSocket: http.NotFoundHandler(),
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createRoom(t *testing.T, id, name string) {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	_, err := ts.app.Rooms.Create(context.Background(), name, model.Player{Nickname: "alice"}, 3, 8, nil)
	require.NoError(t, err)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	ts.createRoom(t, "ROOM0001", "midnight")
	ts.createRoom(t, "ROOM0002", "daybreak")

	// Bring the second room into play
	_, err := ts.app.Rooms.Join(context.Background(), "ROOM0002", model.Player{Nickname: "bob"})
	require.NoError(t, err)
	_, _, err = ts.app.Rooms.ForceStart(context.Background(), "ROOM0002")
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var health response.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Online)
	assert.Equal(t, 2, health.Rooms)
	assert.Equal(t, 1, health.Playing)
}

func TestListRooms(t *testing.T) {
	ts := newTestServer(t)
	ts.createRoom(t, "ROOM0001", "midnight")
	ts.createRoom(t, "ROOM0002", "daybreak")

	rr := ts.request(http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var rooms response.RoomsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rooms))
	require.Len(t, rooms.Rooms, 2)
}

func TestGetRoom(t *testing.T) {
	ts := newTestServer(t)
	ts.createRoom(t, "ROOM0001", "midnight")

	rr := ts.request(http.MethodGet, "/api/v1/rooms/ROOM0001", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var room response.RoomResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Equal(t, model.RoomID("ROOM0001"), room.Room.ID)
	assert.Equal(t, "midnight", room.Room.Name)
}

func TestGetRoomNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/rooms/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "ROOM_NOT_FOUND")
}

func TestNicknameCheckAvailable(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/nickname/check", map[string]string{"nickname": "alice"})
	require.Equal(t, http.StatusOK, rr.Code)

	var check response.NicknameCheckResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.True(t, check.Available)
	assert.False(t, check.Banned)
}

func TestNicknameCheckBanned(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.Ledger.Ban(context.Background(), "grief", "spam", 0)
	require.NoError(t, err)

	rr := ts.request(http.MethodPost, "/api/v1/nickname/check", map[string]string{"nickname": "grief"})
	require.Equal(t, http.StatusOK, rr.Code)

	var check response.NicknameCheckResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.False(t, check.Available)
	assert.True(t, check.Banned)
	assert.Nil(t, check.BannedUntil)
}

func TestNicknameCheckEmptyRejected(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/nickname/check", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}
