package request

import "encoding/json"

// StatsDelta carries optional stat replacements submitted with a save.
// Absent fields keep their stored values.
type StatsDelta struct {
	TotalEarned     *float64 `json:"total_earned,omitempty"`
	Reputation      *float64 `json:"reputation,omitempty"`
	PlayTimeMinutes *float64 `json:"play_time_minutes,omitempty"`
}

// SaveRequest is the request body for saving game state
type SaveRequest struct {
	PlayerID  string          `json:"player_id"`
	GameState json.RawMessage `json:"game_state"`
	Stats     *StatsDelta     `json:"stats,omitempty"`
}

// EnsurePlayerRequest is the request body for registering first contact
type EnsurePlayerRequest struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name,omitempty"`
	Handle      string `json:"handle,omitempty"`
}
