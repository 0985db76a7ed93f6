package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/storetycoon/backend/internal/api/apierr"
	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/stats"
)

// StatsHandler handles stats and leaderboard endpoints
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// PlayerStats handles GET /api/stats/{player_id}
func (h *StatsHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["player_id"]

	playerStats, err := h.statsService.StatsFor(r.Context(), model.PlayerID(playerID))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromService(playerStats))
}

// Leaderboard handles GET /api/leaderboard?limit=N&player_id=X
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.statsService.Leaderboard(r.Context(), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := response.LeaderboardFromService(entries)

	if playerID := r.URL.Query().Get("player_id"); playerID != "" {
		rank, err := h.statsService.Rank(r.Context(), model.PlayerID(playerID))
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		resp.PlayerRank = &rank
	}

	response.JSON(w, http.StatusOK, resp)
}

// Global handles GET /api/stats/global
func (h *StatsHandler) Global(w http.ResponseWriter, r *http.Request) {
	global, err := h.statsService.GlobalStats(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GlobalStatsFromService(global))
}
