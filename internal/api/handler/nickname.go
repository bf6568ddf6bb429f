package handler

import (
	"encoding/json"
	"net/http"

	"github.com/partydeck/mafia-server/internal/api/apierr"
	"github.com/partydeck/mafia-server/internal/api/request"
	"github.com/partydeck/mafia-server/internal/api/response"
	"github.com/partydeck/mafia-server/internal/model"
	"github.com/partydeck/mafia-server/internal/services/ban"
	"github.com/partydeck/mafia-server/internal/services/session"
)

// NicknameHandler answers nickname availability probes, so clients can
// validate a pick before opening a websocket
type NicknameHandler struct {
	registry *session.Registry
	ledger   *ban.Ledger
}

// NewNicknameHandler creates a nickname handler
func NewNicknameHandler(registry *session.Registry, ledger *ban.Ledger) *NicknameHandler {
	return &NicknameHandler{registry: registry, ledger: ledger}
}

// Check handles POST /api/v1/nickname/check
func (h *NicknameHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req request.NicknameCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Nickname == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("nickname is required"))
		return
	}

	nickname := model.Nickname(req.Nickname)
	record, err := h.ledger.IsBanned(r.Context(), nickname)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.NicknameCheckResponse{
		Nickname:  req.Nickname,
		Available: record == nil && !h.registry.NicknameInUse(nickname),
		Banned:    record != nil,
	}
	if record != nil {
		resp.BannedUntil = record.Until
	}
	response.JSON(w, http.StatusOK, resp)
}
