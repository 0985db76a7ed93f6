package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/storetycoon/backend/internal/api/apierr"
	"github.com/storetycoon/backend/internal/api/response"
	"github.com/storetycoon/backend/internal/dependencies/mocks"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/profile"
	"github.com/storetycoon/backend/internal/services/saves"
	"github.com/storetycoon/backend/internal/services/stats"
	"github.com/storetycoon/backend/internal/storage/memory"
	"github.com/storetycoon/backend/internal/testutil"
)

type APISuite struct {
	suite.Suite
	server *httptest.Server
	saves  *saves.Service
	clock  *mocks.MockClock
	ctx    context.Context
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	store := memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	profiles := profile.New(store, s.clock, logger)
	s.saves = saves.New(store, profiles, s.clock, logger)

	router := NewRouter(RouterConfig{
		Logger:         logger,
		ProfileService: profiles,
		SavesService:   s.saves,
		StatsService:   stats.New(store, logger),
	})
	s.server = httptest.NewServer(router)
	s.ctx = context.Background()
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) post(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) decode(resp *http.Response, out any) {
	defer func() { _ = resp.Body.Close() }()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *APISuite) decodeError(resp *http.Response) apierr.ErrorResponse {
	var errResp apierr.ErrorResponse
	s.decode(resp, &errResp)
	return errResp
}

func (s *APISuite) seedSave(playerID string, earned float64) {
	_, err := s.saves.Save(s.ctx, model.PlayerID(playerID), json.RawMessage(`{"coins":1}`), model.StatsDelta{
		TotalEarned: &earned,
	})
	s.Require().NoError(err)
}

func (s *APISuite) TestHealth() {
	resp := s.get("/api/health")
	s.Equal(http.StatusOK, resp.StatusCode)

	var health response.Health
	s.decode(resp, &health)
	s.Equal("ok", health.Status)
	s.Equal("game-api", health.Service)
	s.Contains(health.Endpoints, "/api/save")
}

func (s *APISuite) TestSaveThenLoad() {
	resp := s.post("/api/save", map[string]any{
		"player_id":  "chat-1",
		"game_state": map[string]any{"coins": 500},
		"stats":      map[string]any{"total_earned": 500, "reputation": 1},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	var saved response.SaveResponse
	s.decode(resp, &saved)
	s.NotEmpty(saved.SaveID)
	s.Equal(s.clock.CurrentTime, saved.Timestamp.UTC())

	resp = s.get("/api/load/chat-1")
	s.Equal(http.StatusOK, resp.StatusCode)

	var loaded response.LoadResponse
	s.decode(resp, &loaded)
	s.Equal("chat-1", loaded.PlayerID)
	s.JSONEq(`{"coins":500}`, string(loaded.GameState))
}

func (s *APISuite) TestSaveRejectsMissingPlayerID() {
	resp := s.post("/api/save", map[string]any{
		"game_state": map[string]any{"coins": 1},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Error.Code)
}

func (s *APISuite) TestSaveRejectsMissingGameState() {
	resp := s.post("/api/save", map[string]any{
		"player_id": "chat-1",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Error.Code)
}

func (s *APISuite) TestSaveRejectsMalformedBody() {
	resp, err := http.Post(s.server.URL+"/api/save", "application/json", bytes.NewBufferString("{not json"))
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Error.Code)
}

func (s *APISuite) TestLoadWithoutSave() {
	resp := s.get("/api/load/nonexistent")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(apierr.CodeNoSavedGame, s.decodeError(resp).Error.Code)
}

func (s *APISuite) TestEnsurePlayer() {
	resp := s.post("/api/players", map[string]any{
		"player_id":    "chat-1",
		"display_name": "Alice",
		"handle":       "alice",
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	var player response.Player
	s.decode(resp, &player)
	s.Equal("chat-1", player.ID)
	s.Equal("Alice", player.DisplayName)
	s.False(player.HasSave)

	// Registration is idempotent; a second call returns the same profile.
	resp = s.post("/api/players", map[string]any{
		"player_id":    "chat-1",
		"display_name": "Other",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &player)
	s.Equal("Alice", player.DisplayName)
}

func (s *APISuite) TestEnsurePlayerRejectsMissingID() {
	resp := s.post("/api/players", map[string]any{"display_name": "Alice"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Error.Code)
}

func (s *APISuite) TestPlayerStats() {
	s.seedSave("chat-1", 100)
	s.seedSave("chat-1", 250)

	resp := s.get("/api/stats/chat-1")
	s.Equal(http.StatusOK, resp.StatusCode)

	var playerStats response.PlayerStats
	s.decode(resp, &playerStats)
	s.Equal(250.0, playerStats.TotalEarned)
	s.Equal(2, playerStats.SaveCount)
	s.NotNil(playerStats.LastPlayedAt)
}

func (s *APISuite) TestPlayerStatsUnknownPlayerIsZero() {
	resp := s.get("/api/stats/nonexistent")
	s.Equal(http.StatusOK, resp.StatusCode)

	var playerStats response.PlayerStats
	s.decode(resp, &playerStats)
	s.Zero(playerStats.TotalEarned)
	s.Zero(playerStats.SaveCount)
	s.Nil(playerStats.LastPlayedAt)
}

func (s *APISuite) TestLeaderboard() {
	s.seedSave("low", 10)
	s.seedSave("mid", 50)
	s.seedSave("high", 100)

	resp := s.get("/api/leaderboard?limit=2")
	s.Equal(http.StatusOK, resp.StatusCode)

	var board response.Leaderboard
	s.decode(resp, &board)
	s.Require().Len(board.Entries, 2)
	s.Equal("high", board.Entries[0].DisplayName)
	s.Equal(100.0, board.Entries[0].Score)
	s.Nil(board.PlayerRank)
}

func (s *APISuite) TestLeaderboardRankOutsideWindow() {
	s.seedSave("low", 10)
	s.seedSave("mid", 50)
	s.seedSave("high", 100)

	resp := s.get("/api/leaderboard?limit=1&player_id=low")
	s.Equal(http.StatusOK, resp.StatusCode)

	var board response.Leaderboard
	s.decode(resp, &board)
	s.Len(board.Entries, 1)
	s.Require().NotNil(board.PlayerRank)
	s.Equal(3, *board.PlayerRank)
}

func (s *APISuite) TestLeaderboardUnrankedPlayer() {
	s.seedSave("chat-1", 100)

	resp := s.get("/api/leaderboard?player_id=nonexistent")
	s.Equal(http.StatusOK, resp.StatusCode)

	var board response.Leaderboard
	s.decode(resp, &board)
	s.Require().NotNil(board.PlayerRank)
	s.Zero(*board.PlayerRank)
}

func (s *APISuite) TestLeaderboardRejectsBadLimit() {
	for _, limit := range []string{"abc", "-1", "0"} {
		resp := s.get(fmt.Sprintf("/api/leaderboard?limit=%s", limit))
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal(apierr.CodeInvalidRequest, s.decodeError(resp).Error.Code)
	}
}

func (s *APISuite) TestGlobalStats() {
	s.seedSave("chat-1", 100)
	s.seedSave("chat-2", 50)

	resp := s.get("/api/stats/global")
	s.Equal(http.StatusOK, resp.StatusCode)

	var global response.GlobalStats
	s.decode(resp, &global)
	s.Equal(2, global.TotalPlayers)
	s.Equal(2, global.TotalGames)
	s.Equal(150.0, global.TotalEarned)
	s.Require().Len(global.TopPlayers, 2)
	s.Equal("chat-1", global.TopPlayers[0].DisplayName)
}

func (s *APISuite) TestRequestIDHeaderSet() {
	resp := s.get("/api/health")
	defer func() { _ = resp.Body.Close() }()
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
}

// brokenStorage fails every operation the way a backend with a dead
// disk or dropped connection would.
type brokenStorage struct{}

var errBackendDown = fmt.Errorf("%w: backend down", model.ErrStorageIO)

func (brokenStorage) SavePlayer(context.Context, *model.Player) error { return errBackendDown }
func (brokenStorage) GetPlayer(context.Context, model.PlayerID) (*model.Player, error) {
	return nil, errBackendDown
}
func (brokenStorage) ListPlayers(context.Context) ([]*model.Player, error) {
	return nil, errBackendDown
}
func (brokenStorage) SaveSummary(context.Context, *model.SummaryRecord) error {
	return errBackendDown
}
func (brokenStorage) GetSummary(context.Context, model.PlayerID) (*model.SummaryRecord, error) {
	return nil, errBackendDown
}
func (brokenStorage) ListSummaries(context.Context) ([]*model.SummaryRecord, error) {
	return nil, errBackendDown
}
func (brokenStorage) AppendSave(context.Context, *model.SaveHistoryEntry) error {
	return errBackendDown
}
func (brokenStorage) ListSaves(context.Context, model.PlayerID) ([]*model.SaveHistoryEntry, error) {
	return nil, errBackendDown
}
func (brokenStorage) CountSaves(context.Context, model.PlayerID) (int, error) {
	return 0, errBackendDown
}

func TestStorageFailuresReturn503(t *testing.T) {
	logger := testutil.NopLogger()
	clock := mocks.NewMockClock(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	profiles := profile.New(brokenStorage{}, clock, logger)
	savesService := saves.New(brokenStorage{}, profiles, clock, logger)

	router := NewRouter(RouterConfig{
		Logger:         logger,
		ProfileService: profiles,
		SavesService:   savesService,
		StatsService:   stats.New(brokenStorage{}, logger),
	})
	server := httptest.NewServer(router)
	defer server.Close()

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/save", `{"player_id":"chat-1","game_state":{"coins":1}}`},
		{http.MethodGet, "/api/load/chat-1", ""},
		{http.MethodPost, "/api/players", `{"player_id":"chat-1"}`},
		{http.MethodGet, "/api/stats/chat-1", ""},
		{http.MethodGet, "/api/leaderboard", ""},
		{http.MethodGet, "/api/stats/global", ""},
	}

	for _, tc := range requests {
		req, err := http.NewRequest(tc.method, server.URL+tc.path, bytes.NewBufferString(tc.body))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, resp.StatusCode, http.StatusServiceUnavailable)
		}
		var errResp apierr.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			t.Fatalf("%s %s: decode error body: %v", tc.method, tc.path, err)
		}
		_ = resp.Body.Close()
		if errResp.Error.Code != apierr.CodeStorageError {
			t.Errorf("%s %s: code = %q, want %q", tc.method, tc.path, errResp.Error.Code, apierr.CodeStorageError)
		}
	}
}
