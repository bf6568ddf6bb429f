package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/partydeck/mafia-server/internal/model"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping interval; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames are small control messages
	maxMessageSize = 32 * 1024

	sendQueueSize = 256
)

// ErrSendQueueFull is returned when a client's outbound queue is full.
// The caller treats the send as dropped; a client that cannot drain its
// queue will eventually miss pings and be torn down.
var ErrSendQueueFull = errors.New("ws: client send queue full")

// Router is the inbound side of the message loop the transport feeds
type Router interface {
	HandleMessage(conn model.Conn, data []byte)
	Disconnected(conn model.Conn)
}

// Client wraps one websocket connection. It implements model.Conn, so
// everything above the transport addresses it without knowing about
// websockets.
type Client struct {
	id   uuid.UUID
	conn *websocket.Conn

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
	logger    *slog.Logger
}

var _ model.Conn = (*Client)(nil)

// NewClient wraps an upgraded websocket connection
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	id := uuid.New()
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger.With(slog.String("client", id.String())),
	}
}

// ID returns the connection's identifier
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Send queues an envelope for delivery. It never blocks: a full queue
// drops the frame and reports ErrSendQueueFull.
func (c *Client) Send(env model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return errors.New("ws: connection closed")
	case c.send <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close tears the connection down. Idempotent; safe from any goroutine.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	return nil
}

// readPump reads frames from the peer and feeds them to the router.
// It owns the connection's read side and runs until the peer goes away.
func (c *Client) readPump(router Router) {
	defer func() {
		router.Disconnected(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read error", slog.Any("error", err))
			}
			return
		}
		router.HandleMessage(c, data)
	}
}

// writePump drains the send queue to the peer and keeps the connection
// alive with pings. It owns the connection's write side.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
