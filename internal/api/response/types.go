package response

import (
	"encoding/json"
	"time"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/saves"
	"github.com/storetycoon/backend/internal/services/stats"
)

// SaveResponse is returned from a successful save
type SaveResponse struct {
	SaveID    string    `json:"save_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveResponseFromResult converts a service result to a response
func SaveResponseFromResult(result *saves.SaveResult) SaveResponse {
	return SaveResponse{
		SaveID:    string(result.SaveID),
		Timestamp: result.Timestamp,
	}
}

// LoadResponse is returned from a successful load
type LoadResponse struct {
	PlayerID    string          `json:"player_id"`
	GameState   json.RawMessage `json:"game_state"`
	LastSavedAt time.Time       `json:"last_saved_at"`
}

// Player is the API view of a player profile
type Player struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Handle       string    `json:"handle,omitempty"`
	HasSave      bool      `json:"has_save"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// PlayerFromModel converts a model player to a response
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:           string(p.ID),
		DisplayName:  p.DisplayName,
		Handle:       p.Handle,
		HasSave:      p.HasSave(),
		CreatedAt:    p.CreatedAt,
		LastActiveAt: p.LastActiveAt,
	}
}

// PlayerStats is the API view of one player's aggregates
type PlayerStats struct {
	TotalEarned     float64    `json:"total_earned"`
	Reputation      float64    `json:"reputation"`
	PlayTimeMinutes float64    `json:"play_time_minutes"`
	SaveCount       int        `json:"save_count"`
	LastPlayedAt    *time.Time `json:"last_played_at"`
}

// PlayerStatsFromService converts service stats to a response
func PlayerStatsFromService(s *stats.PlayerStats) PlayerStats {
	return PlayerStats{
		TotalEarned:     s.TotalEarned,
		Reputation:      s.Reputation,
		PlayTimeMinutes: s.PlayTimeMinutes,
		SaveCount:       s.SaveCount,
		LastPlayedAt:    s.LastPlayedAt,
	}
}

// LeaderboardEntry is one row of the leaderboard response
type LeaderboardEntry struct {
	DisplayName string  `json:"display_name"`
	Handle      string  `json:"handle,omitempty"`
	Earnings    float64 `json:"earnings"`
	Reputation  float64 `json:"reputation"`
	GamesPlayed int     `json:"games_played"`
	Score       float64 `json:"score"`
}

// Leaderboard is the leaderboard response. PlayerRank is present only
// when the caller asked for a specific player's rank; 0 means the
// player is not ranked.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	PlayerRank *int               `json:"player_rank,omitempty"`
}

// LeaderboardFromService converts service entries to a response
func LeaderboardFromService(entries []stats.LeaderboardEntry) Leaderboard {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntry{
			DisplayName: e.DisplayName,
			Handle:      e.Handle,
			Earnings:    e.Earnings,
			Reputation:  e.Reputation,
			GamesPlayed: e.GamesPlayed,
			Score:       e.Score,
		})
	}
	return Leaderboard{Entries: out}
}

// TopPlayer is the reduced leaderboard row in global stats
type TopPlayer struct {
	DisplayName string  `json:"display_name"`
	Earnings    float64 `json:"earnings"`
	Reputation  float64 `json:"reputation"`
}

// GlobalStats is the global stats response
type GlobalStats struct {
	TotalPlayers       int         `json:"total_players"`
	TotalGames         int         `json:"total_games"`
	TotalEarned        float64     `json:"total_earned"`
	TotalPlayTimeHours int         `json:"total_play_time_hours"`
	TopPlayers         []TopPlayer `json:"top_players"`
}

// GlobalStatsFromService converts service globals to a response
func GlobalStatsFromService(g *stats.GlobalStats) GlobalStats {
	top := make([]TopPlayer, 0, len(g.TopPlayers))
	for _, p := range g.TopPlayers {
		top = append(top, TopPlayer{
			DisplayName: p.DisplayName,
			Earnings:    p.Earnings,
			Reputation:  p.Reputation,
		})
	}
	return GlobalStats{
		TotalPlayers:       g.TotalPlayers,
		TotalGames:         g.TotalGames,
		TotalEarned:        g.TotalEarned,
		TotalPlayTimeHours: g.TotalPlayTimeHours,
		TopPlayers:         top,
	}
}

// Health is the health check response
type Health struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Endpoints []string  `json:"endpoints"`
}
