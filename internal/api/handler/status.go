package handler

import (
	"net/http"

	"github.com/partydeck/mafia-server/internal/api/apierr"
	"github.com/partydeck/mafia-server/internal/api/response"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/room"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// StatusHandler handles the health endpoint
type StatusHandler struct {
	registry *session.Registry
	rooms    *room.Controller
}

// NewStatusHandler creates a status handler
func NewStatusHandler(registry *session.Registry, rooms *room.Controller) *StatusHandler {
	return &StatusHandler{registry: registry, rooms: rooms}
}

// Health handles GET /api/v1/health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	playing := 0
	for _, rm := range rooms {
		if rm.Status == model.RoomStatusPlaying {
			playing++
		}
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:  "ok",
		Online:  h.registry.OnlineCount(),
		Rooms:   len(rooms),
		Playing: playing,
	})
}
