package redis

import (
	"fmt"

	"github.com/storetycoon/backend/internal/model"
)

// Key prefix for all tycoon data
const keyPrefix = "tycoon"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerIndexKey returns the Redis key for the LIST of player ids in
// creation order
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// summaryKey returns the Redis key for a SummaryRecord
func summaryKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, playerID)
}

// summaryIndexKey returns the Redis key for the LIST of player ids that
// have a summary, in creation order
func summaryIndexKey() string {
	return fmt.Sprintf("%s:idx:summaries", keyPrefix)
}

// savesKey returns the Redis key for the append-only LIST of save
// history entries for a player
func savesKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:saves:%s", keyPrefix, playerID)
}
