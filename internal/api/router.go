package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/partydeck/mafia-server/internal/api/apierr"
	"github.com/partydeck/mafia-server/internal/api/handler"
	"github.com/partydeck/mafia-server/internal/middleware"
	"github.com/partydeck/mafia-server/internal/services/ban"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *session.Registry
	Rooms    *room.Controller
	Ledger   *ban.Ledger

	// WebSocket is mounted at /ws; the realtime protocol lives there
	WebSocket http.Handler
}

// NewRouter creates the HTTP router. The REST surface is a read-only
// window onto coordinator state; every mutation goes through the
// websocket protocol.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statusHandler := handler.NewStatusHandler(cfg.Registry, cfg.Rooms)
	roomHandler := handler.NewRoomHandler(cfg.Rooms)
	nicknameHandler := handler.NewNicknameHandler(cfg.Registry, cfg.Ledger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/nickname/check", nicknameHandler.Check).Methods(http.MethodPost)

	r.Handle("/ws", cfg.WebSocket).Methods(http.MethodGet)

	return r
}
