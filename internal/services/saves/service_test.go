package saves

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/storetycoon/backend/internal/dependencies/mocks"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/profile"
	"github.com/storetycoon/backend/internal/storage"
	"github.com/storetycoon/backend/internal/storage/memory"
	"github.com/storetycoon/backend/internal/testutil"
)

type SavesServiceSuite struct {
	suite.Suite
	storage storage.Storage
	service *Service
	clock   *mocks.MockClock
	ctx     context.Context
}

func TestSavesServiceSuite(t *testing.T) {
	suite.Run(t, new(SavesServiceSuite))
}

func (s *SavesServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	profiles := profile.New(s.storage, s.clock, logger)
	s.service = New(s.storage, profiles, s.clock, logger)
	s.ctx = context.Background()
}

func floatPtr(v float64) *float64 {
	return &v
}

func (s *SavesServiceSuite) TestSaveThenLoadRoundTrip() {
	state := json.RawMessage(`{"coins":500,"shops":[{"id":1}]}`)

	result, err := s.service.Save(s.ctx, "chat-1", state, model.StatsDelta{})
	s.Require().NoError(err)
	s.Equal(s.clock.CurrentTime, result.Timestamp)
	s.Equal(model.SaveID(strconv.FormatInt(s.clock.CurrentTime.UnixMilli(), 10)), result.SaveID)

	loaded, err := s.service.Load(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.JSONEq(string(state), string(loaded.GameState))
	s.Equal(s.clock.CurrentTime, loaded.LastSavedAt)
}

func (s *SavesServiceSuite) TestSaveCreatesPlayerIfMissing() {
	_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{})
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal("chat-1", player.DisplayName)
	s.True(player.HasSave())
}

func (s *SavesServiceSuite) TestSaveValidation() {
	_, err := s.service.Save(s.ctx, "", json.RawMessage(`{}`), model.StatsDelta{})
	s.ErrorIs(err, model.ErrMissingPlayerID)

	_, err = s.service.Save(s.ctx, "chat-1", nil, model.StatsDelta{})
	s.ErrorIs(err, model.ErrMissingGameState)

	_, err = s.service.Save(s.ctx, "chat-1", json.RawMessage(`null`), model.StatsDelta{})
	s.ErrorIs(err, model.ErrMissingGameState)

	// A rejected save must leave no trace.
	_, err = s.storage.GetPlayer(s.ctx, "chat-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	count, err := s.storage.CountSaves(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *SavesServiceSuite) TestEachSaveAppendsHistory() {
	for i := 0; i < 3; i++ {
		_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{})
		s.Require().NoError(err)
		s.clock.Advance(time.Minute)
	}

	entries, err := s.storage.ListSaves(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Len(entries, 3)
	for _, entry := range entries {
		s.Equal(model.SaveFormatVersion, entry.FormatVersion)
	}
}

func (s *SavesServiceSuite) TestSaveIDsStrictlyIncreaseWithinSameMillisecond() {
	var ids []model.SaveID
	for i := 0; i < 3; i++ {
		result, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{})
		s.Require().NoError(err)
		ids = append(ids, result.SaveID)
	}

	for i := 1; i < len(ids); i++ {
		prev, err := strconv.ParseInt(string(ids[i-1]), 10, 64)
		s.Require().NoError(err)
		cur, err := strconv.ParseInt(string(ids[i]), 10, 64)
		s.Require().NoError(err)
		s.Greater(cur, prev)
	}
}

func (s *SavesServiceSuite) TestSummaryLastWriteWinsPerField() {
	_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{
		TotalEarned:     floatPtr(100),
		Reputation:      floatPtr(5),
		PlayTimeMinutes: floatPtr(30),
	})
	s.Require().NoError(err)

	// Only earnings submitted; reputation and play time keep their values.
	_, err = s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{
		TotalEarned: floatPtr(250),
	})
	s.Require().NoError(err)

	summary, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(250.0, summary.TotalEarned)
	s.Equal(5.0, summary.Reputation)
	s.Equal(30.0, summary.PlayTimeMinutes)
}

func (s *SavesServiceSuite) TestNegativeStatsClampToZero() {
	_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{
		TotalEarned: floatPtr(-50),
		Reputation:  floatPtr(-1),
	})
	s.Require().NoError(err)

	summary, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Zero(summary.TotalEarned)
	s.Zero(summary.Reputation)
}

func (s *SavesServiceSuite) TestSummaryTimestamps() {
	created := s.clock.CurrentTime

	_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.service.Save(s.ctx, "chat-1", json.RawMessage(`{}`), model.StatsDelta{})
	s.Require().NoError(err)

	summary, err := s.storage.GetSummary(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.Equal(created, summary.CreatedAt)
	s.Equal(s.clock.CurrentTime, summary.LastPlayedAt)
}

func (s *SavesServiceSuite) TestLoadWithoutSave() {
	_, err := s.service.Load(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrNoSavedGame)

	// A player who registered but never saved gets the same error.
	profiles := profile.New(s.storage, s.clock, testutil.NopLogger())
	_, err = profiles.EnsurePlayer(s.ctx, "chat-1", "Alice", "")
	s.Require().NoError(err)

	_, err = s.service.Load(s.ctx, "chat-1")
	s.ErrorIs(err, model.ErrNoSavedGame)
}

func (s *SavesServiceSuite) TestLoadMissingPlayerID() {
	_, err := s.service.Load(s.ctx, "")
	s.ErrorIs(err, model.ErrMissingPlayerID)
}

func (s *SavesServiceSuite) TestLoadReturnsLatestState() {
	_, err := s.service.Save(s.ctx, "chat-1", json.RawMessage(`{"coins":1}`), model.StatsDelta{})
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.service.Save(s.ctx, "chat-1", json.RawMessage(`{"coins":2}`), model.StatsDelta{})
	s.Require().NoError(err)

	loaded, err := s.service.Load(s.ctx, "chat-1")
	s.Require().NoError(err)
	s.JSONEq(`{"coins":2}`, string(loaded.GameState))
}
