package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storetycoon/backend/internal/api/apierr"
	"github.com/storetycoon/backend/internal/api/request"
	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/profile"
)

// PlayerHandler handles player profile endpoints
type PlayerHandler struct {
	profileService *profile.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(profileService *profile.Service) *PlayerHandler {
	return &PlayerHandler{
		profileService: profileService,
	}
}

// Ensure handles POST /api/players
func (h *PlayerHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	var req request.EnsurePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.profileService.EnsurePlayer(r.Context(), model.PlayerID(req.PlayerID), req.DisplayName, req.Handle)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
