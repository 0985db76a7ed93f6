package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/storetycoon/backend/internal/dependencies/clock"
	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

// Service manages player profiles. Profiles are created on first contact
// and never deleted.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new profile service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// EnsurePlayer looks up a player by id, creating the profile if it does
// not exist yet. An existing profile is returned unchanged: only a save
// refreshes LastActiveAt.
func (s *Service) EnsurePlayer(ctx context.Context, id model.PlayerID, displayName, handle string) (*model.Player, error) {
	if id == "" {
		return nil, model.ErrMissingPlayerID
	}

	player, err := s.storage.GetPlayer(ctx, id)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	if displayName == "" {
		displayName = string(id)
	}

	now := s.clock.Now()
	player = &model.Player{
		ID:           id,
		DisplayName:  displayName,
		Handle:       handle,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(id)),
		slog.String("display_name", displayName),
	)

	return player, nil
}
