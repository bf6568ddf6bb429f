package model

// Conn is a live client connection as the core sees it. The websocket
// transport provides the real implementation; tests substitute fakes.
// Send is fire-and-forget: a failed send is dropped, never retried.
type Conn interface {
	Send(env Envelope) error
	Close() error
}
