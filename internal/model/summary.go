package model

import "time"

// SummaryRecord holds the per-player running totals used for profile
// display and ranking. Exactly zero or one exists per player; it is
// created lazily on the player's first save.
type SummaryRecord struct {
	PlayerID        PlayerID  `json:"userId"`
	TotalEarned     float64   `json:"totalEarned"`
	Reputation      float64   `json:"reputation"`
	PlayTimeMinutes float64   `json:"playTimeMinutes"`
	LastPlayedAt    time.Time `json:"lastPlayedAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// StatsDelta carries the stat fields a client submitted with a save.
// Nil fields were absent from the submission and must not overwrite
// stored values. Present fields replace the stored value outright
// (last-write-wins, not a sum).
type StatsDelta struct {
	TotalEarned     *float64 `json:"totalEarned,omitempty"`
	Reputation      *float64 `json:"reputation,omitempty"`
	PlayTimeMinutes *float64 `json:"playTimeMinutes,omitempty"`
}

// IsEmpty reports whether no stat fields were submitted.
func (d StatsDelta) IsEmpty() bool {
	return d.TotalEarned == nil && d.Reputation == nil && d.PlayTimeMinutes == nil
}
