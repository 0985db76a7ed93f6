package storage

import (
	"context"

	"github.com/storetycoon/backend/internal/model"
)

// Storage defines the interface for data persistence.
//
// All list operations return records in insertion order; the leaderboard
// relies on that order to break score ties. Save history is append-only:
// no update or delete operations exist for it.
type Storage interface {
	// Player operations. SavePlayer upserts by id.
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Summary operations. SaveSummary upserts by player id.
	SaveSummary(ctx context.Context, summary *model.SummaryRecord) error
	GetSummary(ctx context.Context, playerID model.PlayerID) (*model.SummaryRecord, error)
	ListSummaries(ctx context.Context) ([]*model.SummaryRecord, error)

	// Save history operations
	AppendSave(ctx context.Context, entry *model.SaveHistoryEntry) error
	ListSaves(ctx context.Context, playerID model.PlayerID) ([]*model.SaveHistoryEntry, error)
	CountSaves(ctx context.Context, playerID model.PlayerID) (int, error)
}
