package testutil

import (
	"sync"

	"github.com/partydeck/mafia-server/internal/model"
)

// FakeConn is an in-memory Conn that records everything sent to it.
// Safe for concurrent use.
type FakeConn struct {
	mu     sync.Mutex
	sent   []model.Envelope
	closed bool

	// SendErr, when set, is returned from every Send
	SendErr error
}

var _ model.Conn = (*FakeConn)(nil)

// NewFakeConn creates a FakeConn
func NewFakeConn() *FakeConn {
	return &FakeConn{}
}

// Send records the envelope
func (c *FakeConn) Send(env model.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, env)
	return nil
}

// Close marks the connection closed. Idempotent.
func (c *FakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Sent returns a copy of every envelope sent so far
func (c *FakeConn) Sent() []model.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Envelope, len(c.sent))
	copy(out, c.sent)
	return out
}

// SentOfType returns the envelopes with the given message type
func (c *FakeConn) SentOfType(t model.MessageType) []model.Envelope {
	var out []model.Envelope
	for _, env := range c.Sent() {
		if env.Type == t {
			out = append(out, env)
		}
	}
	return out
}

// LastOfType returns the most recent envelope of the given type, or nil
func (c *FakeConn) LastOfType(t model.MessageType) *model.Envelope {
	matches := c.SentOfType(t)
	if len(matches) == 0 {
		return nil
	}
	return &matches[len(matches)-1]
}
