package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Save/load errors
	ErrNoSavedGame      = errors.New("no saved game for player")
	ErrMissingPlayerID  = errors.New("player id is required")
	ErrMissingGameState = errors.New("game state is required")

	// Summary errors
	ErrSummaryNotFound = errors.New("summary not found")

	// Storage errors. Backends wrap read/write failures of the durable
	// medium with ErrStorageIO so callers can distinguish them from
	// caller errors.
	ErrStorageIO = errors.New("storage io failure")
)
