package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/storetycoon/backend/internal/dependencies/clock"
	"github.com/storetycoon/backend/internal/services/profile"
	"github.com/storetycoon/backend/internal/services/saves"
	"github.com/storetycoon/backend/internal/services/stats"
	"github.com/storetycoon/backend/internal/storage"
	filestorage "github.com/storetycoon/backend/internal/storage/file"
	"github.com/storetycoon/backend/internal/storage/memory"
	redisstorage "github.com/storetycoon/backend/internal/storage/redis"
	sqlitestorage "github.com/storetycoon/backend/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	ProfileService *profile.Service
	SavesService   *saves.Service
	StatsService   *stats.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// DataDir is the data directory for the file backend
	DataDir string
	// SQLitePath is the database path for the sqlite backend
	SQLitePath string
	// RedisConfig holds Redis connection settings (required if
	// StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		fileStore, err := filestorage.New(dataDir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'file', 'redis', or 'sqlite'")
	}

	return newWithDependencies(store, clock.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, logger *slog.Logger) *App {
	profileService := profile.New(store, clk, logger)
	savesService := saves.New(store, profileService, clk, logger)
	statsService := stats.New(store, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		ProfileService: profileService,
		SavesService:   savesService,
		StatsService:   statsService,
	}
}
