package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket connections and hands
// them to the router
type Handler struct {
	router   Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket upgrade handler
func NewHandler(router Router, logger *slog.Logger) *Handler {
	return &Handler{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients connect from arbitrary origins (native apps,
			// local dev pages), so the origin check is open
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.logger.Debug("upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(conn, h.logger)
	h.logger.Info("client connected",
		slog.String("client", client.ID().String()),
		slog.String("remote", r.RemoteAddr))

	go client.writePump()
	go client.readPump(h.router)
}
