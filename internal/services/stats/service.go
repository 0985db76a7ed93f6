package stats

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

// DefaultLeaderboardLimit is used when a caller does not specify one.
const DefaultLeaderboardLimit = 10

// topPlayersLimit caps the leaderboard slice embedded in global stats.
const topPlayersLimit = 5

// reputationWeight is the fixed exchange rate between reputation and
// currency in the ranking score. Clients display ranks computed with
// this exact weight; it must not change.
const reputationWeight = 1000

// PlayerStats is the aggregate view of one player
type PlayerStats struct {
	TotalEarned     float64
	Reputation      float64
	PlayTimeMinutes float64
	SaveCount       int
	LastPlayedAt    *time.Time
}

// LeaderboardEntry is one row of the ranked leaderboard
type LeaderboardEntry struct {
	PlayerID    model.PlayerID
	DisplayName string
	Handle      string
	Earnings    float64
	Reputation  float64
	GamesPlayed int
	Score       float64
}

// TopPlayer is the reduced leaderboard row embedded in global stats
type TopPlayer struct {
	DisplayName string
	Earnings    float64
	Reputation  float64
}

// GlobalStats aggregates over the whole player base
type GlobalStats struct {
	TotalPlayers       int
	TotalGames         int
	TotalEarned        float64
	TotalPlayTimeHours int
	TopPlayers         []TopPlayer
}

// Service computes per-player stats, the leaderboard, and global totals.
// There is no caching layer: every query re-reads the store.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// StatsFor returns the aggregate view of one player. A player without a
// summary record gets all-zero stats rather than an error.
func (s *Service) StatsFor(ctx context.Context, playerID model.PlayerID) (*PlayerStats, error) {
	if playerID == "" {
		return nil, model.ErrMissingPlayerID
	}

	stats := &PlayerStats{}

	summary, err := s.storage.GetSummary(ctx, playerID)
	if err == nil {
		stats.TotalEarned = summary.TotalEarned
		stats.Reputation = summary.Reputation
		stats.PlayTimeMinutes = summary.PlayTimeMinutes
		lastPlayed := summary.LastPlayedAt
		stats.LastPlayedAt = &lastPlayed
	} else if !errors.Is(err, model.ErrSummaryNotFound) {
		return nil, err
	}

	count, err := s.storage.CountSaves(ctx, playerID)
	if err != nil {
		return nil, err
	}
	stats.SaveCount = count

	return stats, nil
}

// Leaderboard returns the top entries sorted by score descending.
// Truncation happens after sorting; ties keep the summaries' insertion
// order (stable sort, no extra tiebreak).
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	entries, err := s.rankedEntries(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Rank returns the 1-based position of a player in the untruncated
// sorted sequence, or 0 if the player has no summary record.
func (s *Service) Rank(ctx context.Context, playerID model.PlayerID) (int, error) {
	entries, err := s.rankedEntries(ctx)
	if err != nil {
		return 0, err
	}

	for i, e := range entries {
		if e.PlayerID == playerID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// GlobalStats aggregates over all players. TotalGames counts players who
// have ever saved (one summary each), not individual save events.
func (s *Service) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.storage.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	var totalEarned, totalMinutes float64
	for _, summary := range summaries {
		totalEarned += summary.TotalEarned
		totalMinutes += summary.PlayTimeMinutes
	}

	top, err := s.Leaderboard(ctx, topPlayersLimit)
	if err != nil {
		return nil, err
	}

	topPlayers := make([]TopPlayer, 0, len(top))
	for _, e := range top {
		topPlayers = append(topPlayers, TopPlayer{
			DisplayName: e.DisplayName,
			Earnings:    e.Earnings,
			Reputation:  e.Reputation,
		})
	}

	return &GlobalStats{
		TotalPlayers:       len(players),
		TotalGames:         len(summaries),
		TotalEarned:        totalEarned,
		TotalPlayTimeHours: int(totalMinutes) / 60,
		TopPlayers:         topPlayers,
	}, nil
}

func (s *Service) rankedEntries(ctx context.Context) ([]LeaderboardEntry, error) {
	summaries, err := s.storage.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}

	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[model.PlayerID]*model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	entries := make([]LeaderboardEntry, 0, len(summaries))
	for _, summary := range summaries {
		entry := LeaderboardEntry{
			PlayerID:   summary.PlayerID,
			Earnings:   summary.TotalEarned,
			Reputation: summary.Reputation,
			Score:      score(summary),
		}
		if player, ok := byID[summary.PlayerID]; ok {
			entry.DisplayName = player.DisplayName
			entry.Handle = player.Handle
		} else {
			entry.DisplayName = string(summary.PlayerID)
		}

		count, err := s.storage.CountSaves(ctx, summary.PlayerID)
		if err != nil {
			return nil, err
		}
		entry.GamesPlayed = count

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return entries, nil
}

func score(summary *model.SummaryRecord) float64 {
	return summary.TotalEarned + summary.Reputation*reputationWeight
}
