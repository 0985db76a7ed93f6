package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/storetycoon/backend/internal/api/handler"
	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/middleware"
	"github.com/storetycoon/backend/internal/services/profile"
	"github.com/storetycoon/backend/internal/services/saves"
	"github.com/storetycoon/backend/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	ProfileService *profile.Service
	SavesService   *saves.Service
	StatsService   *stats.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	saveHandler := handler.NewSaveHandler(cfg.SavesService)
	playerHandler := handler.NewPlayerHandler(cfg.ProfileService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.RequestID())
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/save", saveHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/load/{player_id}", saveHandler.Load).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Ensure).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)

	// /stats/global must register before the player_id route
	api.HandleFunc("/stats/global", statsHandler.Global).Methods(http.MethodGet)
	api.HandleFunc("/stats/{player_id}", statsHandler.PlayerStats).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status:    "ok",
		Service:   "game-api",
		Timestamp: time.Now().UTC(),
		Endpoints: []string{
			"/api/health",
			"/api/save",
			"/api/load/{player_id}",
			"/api/players",
			"/api/leaderboard",
			"/api/stats/global",
			"/api/stats/{player_id}",
		},
	})
}
