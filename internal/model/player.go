package model

import (
	"encoding/json"
	"time"
)

// PlayerID uniquely identifies a player across the system.
// For players arriving through the Telegram bot this is the chat id.
type PlayerID string

// Player is a game participant. Profiles are created on first contact
// and never deleted.
type Player struct {
	ID          PlayerID        `json:"id"`
	DisplayName string          `json:"displayName"`
	Handle      string          `json:"handle,omitempty"`
	GameState   json.RawMessage `json:"gameState"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastActiveAt time.Time      `json:"lastActiveAt"`
}

// HasSave reports whether the player has ever saved a game.
func (p *Player) HasSave() bool {
	return len(p.GameState) > 0 && string(p.GameState) != "null"
}
