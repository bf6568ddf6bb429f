package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/testutil"
)

// recordingRouter captures what the transport feeds it
type recordingRouter struct {
	mu       sync.Mutex
	frames   [][]byte
	conns    []model.Conn
	gone     []model.Conn
	received chan struct{}
	dropped  chan struct{}
}

func newRecordingRouter() *recordingRouter {
	return &recordingRouter{
		received: make(chan struct{}, 16),
		dropped:  make(chan struct{}, 16),
	}
}

func (r *recordingRouter) HandleMessage(conn model.Conn, data []byte) {
	r.mu.Lock()
	r.conns = append(r.conns, conn)
	r.frames = append(r.frames, data)
	r.mu.Unlock()
	r.received <- struct{}{}
}

func (r *recordingRouter) Disconnected(conn model.Conn) {
	r.mu.Lock()
	r.gone = append(r.gone, conn)
	r.mu.Unlock()
	r.dropped <- struct{}{}
}

func (r *recordingRouter) lastFrame() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestInboundFramesReachRouter(t *testing.T) {
	router := newRecordingRouter()
	server := httptest.NewServer(NewHandler(router, testutil.NopLogger()))
	defer server.Close()

	conn := dial(t, server.URL)
	defer func() { _ = conn.Close() }()

	frame := []byte(`{"type":"ping"}`)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))

	select {
	case <-router.received:
	case <-time.After(2 * time.Second):
		t.Fatal("router never saw the frame")
	}
	assert.Equal(t, frame, router.lastFrame())
}

func TestPeerCloseReportsDisconnect(t *testing.T) {
	router := newRecordingRouter()
	server := httptest.NewServer(NewHandler(router, testutil.NopLogger()))
	defer server.Close()

	conn := dial(t, server.URL)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	select {
	case <-router.dropped:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect never reported")
	}
}

func TestSendDeliversEnvelope(t *testing.T) {
	router := newRecordingRouter()
	server := httptest.NewServer(NewHandler(router, testutil.NopLogger()))
	defer server.Close()

	conn := dial(t, server.URL)
	defer func() { _ = conn.Close() }()

	// The first inbound frame reveals the server-side connection
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	select {
	case <-router.received:
	case <-time.After(2 * time.Second):
		t.Fatal("router never saw the frame")
	}

	router.mu.Lock()
	serverConn := router.conns[0]
	router.mu.Unlock()

	require.NoError(t, serverConn.Send(model.NewEnvelope(model.TypePong, nil)))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, model.TypePong, env.Type)
}

func TestSendQueueFullDropsFrame(t *testing.T) {
	client := &Client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}

	env := model.NewEnvelope(model.TypePong, nil)
	require.NoError(t, client.Send(env))
	assert.ErrorIs(t, client.Send(env), ErrSendQueueFull)
}

func TestSendAfterCloseFails(t *testing.T) {
	client := &Client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}
	close(client.done)

	err := client.Send(model.NewEnvelope(model.TypePong, nil))
	require.Error(t, err)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	client := &Client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}

	require.NoError(t, client.Send(model.NewEnvelope(model.TypeError, model.ErrorPayload{
		Code:    "BANNED",
		Message: "banned",
	})))

	var env model.Envelope
	require.NoError(t, json.Unmarshal(<-client.send, &env))
	assert.Equal(t, model.TypeError, env.Type)
}
