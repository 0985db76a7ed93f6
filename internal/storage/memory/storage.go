package memory

import (
	"context"
	"sync"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// List results preserve insertion order. Records are copied on write
// and on read, so callers never share a struct with the store.
type Storage struct {
	mu sync.RWMutex

	players      map[model.PlayerID]*model.Player
	playerOrder  []model.PlayerID
	summaries    map[model.PlayerID]*model.SummaryRecord
	summaryOrder []model.PlayerID
	saves        map[model.PlayerID][]*model.SaveHistoryEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.Player),
		summaries: make(map[model.PlayerID]*model.SummaryRecord),
		saves:     make(map[model.PlayerID][]*model.SaveHistoryEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		s.playerOrder = append(s.playerOrder, player.ID)
	}
	stored := *player
	s.players[player.ID] = &stored
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	out := *player
	return &out, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		out := *s.players[id]
		players = append(players, &out)
	}
	return players, nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.summaries[summary.PlayerID]; !ok {
		s.summaryOrder = append(s.summaryOrder, summary.PlayerID)
	}
	stored := *summary
	s.summaries[summary.PlayerID] = &stored
	return nil
}

func (s *Storage) GetSummary(ctx context.Context, playerID model.PlayerID) (*model.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[playerID]
	if !ok {
		return nil, model.ErrSummaryNotFound
	}
	out := *summary
	return &out, nil
}

func (s *Storage) ListSummaries(ctx context.Context) ([]*model.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]*model.SummaryRecord, 0, len(s.summaryOrder))
	for _, id := range s.summaryOrder {
		out := *s.summaries[id]
		summaries = append(summaries, &out)
	}
	return summaries, nil
}

// Save history operations

func (s *Storage) AppendSave(ctx context.Context, entry *model.SaveHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	s.saves[entry.PlayerID] = append(s.saves[entry.PlayerID], &stored)
	return nil
}

func (s *Storage) ListSaves(ctx context.Context, playerID model.PlayerID) ([]*model.SaveHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.saves[playerID]
	result := make([]*model.SaveHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		out := *entry
		result = append(result, &out)
	}
	return result, nil
}

func (s *Storage) CountSaves(ctx context.Context, playerID model.PlayerID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saves[playerID]), nil
}
