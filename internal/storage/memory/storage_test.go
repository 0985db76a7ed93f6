package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/storetycoon/backend/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "chat-1",
		DisplayName: "Alice",
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerUpserts() {
	player := &model.Player{ID: "chat-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	updated := &model.Player{ID: "chat-1", DisplayName: "Alice", GameState: json.RawMessage(`{"coins":5}`)}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, updated))

	retrieved, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.JSONEq(`{"coins":5}`, string(retrieved.GameState))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *StorageSuite) TestListPlayersPreservesInsertionOrder() {
	for _, id := range []model.PlayerID{"c", "a", "b"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: id}))
	}

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("c"), players[0].ID)
	s.Equal(model.PlayerID("a"), players[1].ID)
	s.Equal(model.PlayerID("b"), players[2].ID)
}

// Summary tests

func (s *StorageSuite) TestSaveAndGetSummary() {
	summary := &model.SummaryRecord{
		PlayerID:    "chat-1",
		TotalEarned: 100,
		Reputation:  5,
	}

	err := s.storage.SaveSummary(s.ctx, summary)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(float64(100), retrieved.TotalEarned)
	s.Equal(float64(5), retrieved.Reputation)
}

func (s *StorageSuite) TestGetSummaryNotFound() {
	_, err := s.storage.GetSummary(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSummaryNotFound)
}

func (s *StorageSuite) TestSaveSummaryUpsertKeepsOrder() {
	s.Require().NoError(s.storage.SaveSummary(s.ctx, &model.SummaryRecord{PlayerID: "first", TotalEarned: 1}))
	s.Require().NoError(s.storage.SaveSummary(s.ctx, &model.SummaryRecord{PlayerID: "second", TotalEarned: 2}))
	s.Require().NoError(s.storage.SaveSummary(s.ctx, &model.SummaryRecord{PlayerID: "first", TotalEarned: 10}))

	summaries, err := s.storage.ListSummaries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(model.PlayerID("first"), summaries[0].PlayerID)
	s.Equal(float64(10), summaries[0].TotalEarned)
	s.Equal(model.PlayerID("second"), summaries[1].PlayerID)
}

// Save history tests

func (s *StorageSuite) TestAppendAndListSaves() {
	for i, id := range []model.SaveID{"100", "101", "102"} {
		entry := &model.SaveHistoryEntry{
			ID:            id,
			PlayerID:      "chat-1",
			SaveData:      json.RawMessage(`{}`),
			FormatVersion: 1,
			Timestamp:     time.Now().Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.AppendSave(s.ctx, entry))
	}

	entries, err := s.storage.ListSaves(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(model.SaveID("100"), entries[0].ID)
	s.Equal(model.SaveID("102"), entries[2].ID)
}

func (s *StorageSuite) TestCountSaves() {
	count, err := s.storage.CountSaves(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.storage.AppendSave(s.ctx, &model.SaveHistoryEntry{ID: "100", PlayerID: "chat-1"}))
	s.Require().NoError(s.storage.AppendSave(s.ctx, &model.SaveHistoryEntry{ID: "101", PlayerID: "chat-1"}))
	s.Require().NoError(s.storage.AppendSave(s.ctx, &model.SaveHistoryEntry{ID: "102", PlayerID: "chat-2"}))

	count, err = s.storage.CountSaves(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *StorageSuite) TestReadsReturnDetachedCopies() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "chat-1", DisplayName: "Alice"}))
	s.Require().NoError(s.storage.SaveSummary(s.ctx, &model.SummaryRecord{PlayerID: "chat-1", TotalEarned: 100}))

	// Mutating a read result must not leak into the store.
	player, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	player.DisplayName = "mutated"
	player.GameState = json.RawMessage(`{"coins":1}`)

	summary, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	summary.TotalEarned = -1

	stored, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)
	s.False(stored.HasSave())

	storedSummary, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(100.0, storedSummary.TotalEarned)
}

func (s *StorageSuite) TestWritesDetachFromCallerStruct() {
	player := &model.Player{ID: "chat-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	// Mutating the caller's struct after the write must not change the
	// stored record.
	player.DisplayName = "mutated"

	stored, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)
}
