package model

import (
	"encoding/json"
	"time"
)

// SaveFormatVersion is stamped onto every new history entry.
const SaveFormatVersion = 1

// SaveID identifies one save event. IDs are derived from the creation
// timestamp in milliseconds, rendered as a decimal string, and are
// strictly increasing per store.
type SaveID string

// SaveHistoryEntry is the immutable audit record of one save: what was
// saved, when, and with which stats snapshot. Entries are append-only
// and never mutated or deleted.
type SaveHistoryEntry struct {
	ID            SaveID          `json:"id"`
	PlayerID      PlayerID        `json:"userId"`
	SaveData      json.RawMessage `json:"saveData"`
	Stats         StatsDelta      `json:"stats"`
	Timestamp     time.Time       `json:"timestamp"`
	FormatVersion int             `json:"formatVersion"`
}
