package saves

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/storetycoon/backend/internal/dependencies/clock"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/services/profile"
	"github.com/storetycoon/backend/internal/storage"
)

// SaveResult is returned from a successful save
type SaveResult struct {
	SaveID    model.SaveID
	Timestamp time.Time
}

// LoadResult is returned from a successful load
type LoadResult struct {
	GameState   json.RawMessage
	LastSavedAt time.Time
}

// Service persists game state submissions and serves the latest state
// back. The blob is opaque to this layer: it is stored and returned
// verbatim, never parsed.
type Service struct {
	storage storage.Storage
	profile *profile.Service
	clock   clock.Clock
	logger  *slog.Logger

	// Guards save id generation; ids must be strictly increasing even
	// for saves landing within the same millisecond.
	mu         sync.Mutex
	lastIssued int64
}

// New creates a new save/load service
func New(storage storage.Storage, profile *profile.Service, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		profile: profile,
		clock:   clock,
		logger:  logger,
	}
}

// Save durably stores a game state blob for a player. The effect is
// three writes in a fixed order: the player record gets the new blob and
// LastActiveAt (the player is created first if needed), an immutable
// history entry is appended, and the summary record is upserted with the
// submitted stat fields. Delta fields that were absent keep their stored
// values; present fields replace them outright.
func (s *Service) Save(ctx context.Context, playerID model.PlayerID, gameState json.RawMessage, delta model.StatsDelta) (*SaveResult, error) {
	if playerID == "" {
		return nil, model.ErrMissingPlayerID
	}
	if len(gameState) == 0 || string(gameState) == "null" {
		return nil, model.ErrMissingGameState
	}

	now := s.clock.Now()

	player, err := s.profile.EnsurePlayer(ctx, playerID, "", "")
	if err != nil {
		return nil, err
	}
	player.GameState = gameState
	player.LastActiveAt = now
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	entry := &model.SaveHistoryEntry{
		ID:            s.nextSaveID(now),
		PlayerID:      playerID,
		SaveData:      gameState,
		Stats:         delta,
		Timestamp:     now,
		FormatVersion: model.SaveFormatVersion,
	}
	if err := s.storage.AppendSave(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.updateSummary(ctx, playerID, delta, now); err != nil {
		return nil, err
	}

	s.logger.Info("game saved",
		slog.String("player_id", string(playerID)),
		slog.String("save_id", string(entry.ID)),
		slog.Int("blob_bytes", len(gameState)),
	)

	return &SaveResult{SaveID: entry.ID, Timestamp: now}, nil
}

// Load returns the latest game state for a player. By invariant the
// player record always holds the most recent save, so history is never
// scanned here.
func (s *Service) Load(ctx context.Context, playerID model.PlayerID) (*LoadResult, error) {
	if playerID == "" {
		return nil, model.ErrMissingPlayerID
	}

	player, err := s.storage.GetPlayer(ctx, playerID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, model.ErrNoSavedGame
	}
	if err != nil {
		return nil, err
	}
	if !player.HasSave() {
		return nil, model.ErrNoSavedGame
	}

	return &LoadResult{
		GameState:   player.GameState,
		LastSavedAt: player.LastActiveAt,
	}, nil
}

func (s *Service) updateSummary(ctx context.Context, playerID model.PlayerID, delta model.StatsDelta, now time.Time) error {
	summary, err := s.storage.GetSummary(ctx, playerID)
	if errors.Is(err, model.ErrSummaryNotFound) {
		summary = &model.SummaryRecord{
			PlayerID:  playerID,
			CreatedAt: now,
		}
	} else if err != nil {
		return err
	}

	if delta.TotalEarned != nil {
		summary.TotalEarned = clampNonNegative(*delta.TotalEarned)
	}
	if delta.Reputation != nil {
		summary.Reputation = clampNonNegative(*delta.Reputation)
	}
	if delta.PlayTimeMinutes != nil {
		summary.PlayTimeMinutes = clampNonNegative(*delta.PlayTimeMinutes)
	}
	summary.LastPlayedAt = now

	return s.storage.SaveSummary(ctx, summary)
}

// nextSaveID derives a save id from the creation timestamp in
// milliseconds, bumping past the last issued id on collision.
func (s *Service) nextSaveID(now time.Time) model.SaveID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= s.lastIssued {
		ms = s.lastIssued + 1
	}
	s.lastIssued = ms
	return model.SaveID(strconv.FormatInt(ms, 10))
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
