package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/partydeck/mafia-server/internal/api/apierr"
	"github.com/partydeck/mafia-server/internal/api/response"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/room"
)

// RoomHandler handles read-only room endpoints. Mutations go through
// the websocket protocol so every client observes them in order.
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	out := make([]model.Room, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, *rm)
	}
	response.JSON(w, http.StatusOK, response.RoomsResponse{Rooms: out})
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.rooms.Get(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomResponse{Room: *rm})
}
