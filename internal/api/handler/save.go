package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storetycoon/backend/internal/api/apierr"
	"github.com/storetycoon/backend/internal/api/request"
	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/saves"
)

// SaveHandler handles save/load endpoints
type SaveHandler struct {
	savesService *saves.Service
}

// NewSaveHandler creates a new save handler
func NewSaveHandler(savesService *saves.Service) *SaveHandler {
	return &SaveHandler{
		savesService: savesService,
	}
}

// Save handles POST /api/save
func (h *SaveHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.savesService.Save(r.Context(), model.PlayerID(req.PlayerID), req.GameState, deltaFromRequest(req.Stats))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SaveResponseFromResult(result))
}

// Load handles GET /api/load/{player_id}
func (h *SaveHandler) Load(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["player_id"]

	result, err := h.savesService.Load(r.Context(), model.PlayerID(playerID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoadResponse{
		PlayerID:    playerID,
		GameState:   result.GameState,
		LastSavedAt: result.LastSavedAt,
	})
}

func deltaFromRequest(stats *request.StatsDelta) model.StatsDelta {
	if stats == nil {
		return model.StatsDelta{}
	}
	return model.StatsDelta{
		TotalEarned:     stats.TotalEarned,
		Reputation:      stats.Reputation,
		PlayTimeMinutes: stats.PlayTimeMinutes,
	}
}
