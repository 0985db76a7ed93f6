package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorageIO, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// ioErr tags command failures with the storage error kind
func ioErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", model.ErrStorageIO, err)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return ioErr(err)
	}

	// Pipeline the record write with the index append on first create
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	if exists == 0 {
		pipe.RPush(ctx, playerIndexKey(), string(player.ID))
	}
	_, err = pipe.Exec(ctx)
	return ioErr(err)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, ioErr(err)
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.LRange(ctx, playerIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, ioErr(err)
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ioErr(err)
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}
	return players, nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.SummaryRecord) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := summaryKey(summary.PlayerID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return ioErr(err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	if exists == 0 {
		pipe.RPush(ctx, summaryIndexKey(), string(summary.PlayerID))
	}
	_, err = pipe.Exec(ctx)
	return ioErr(err)
}

func (s *Storage) GetSummary(ctx context.Context, playerID model.PlayerID) (*model.SummaryRecord, error) {
	data, err := s.client.Get(ctx, summaryKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSummaryNotFound
		}
		return nil, ioErr(err)
	}

	var summary model.SummaryRecord
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Storage) ListSummaries(ctx context.Context) ([]*model.SummaryRecord, error) {
	ids, err := s.client.LRange(ctx, summaryIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, ioErr(err)
	}
	if len(ids) == 0 {
		return []*model.SummaryRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = summaryKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, ioErr(err)
	}

	summaries := make([]*model.SummaryRecord, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var summary model.SummaryRecord
		if err := json.Unmarshal([]byte(val.(string)), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// Save history operations

func (s *Storage) AppendSave(ctx context.Context, entry *model.SaveHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return ioErr(s.client.RPush(ctx, savesKey(entry.PlayerID), data).Err())
}

func (s *Storage) ListSaves(ctx context.Context, playerID model.PlayerID) ([]*model.SaveHistoryEntry, error) {
	values, err := s.client.LRange(ctx, savesKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, ioErr(err)
	}

	entries := make([]*model.SaveHistoryEntry, 0, len(values))
	for _, val := range values {
		var entry model.SaveHistoryEntry
		if err := json.Unmarshal([]byte(val), &entry); err != nil {
			continue // Skip invalid data
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (s *Storage) CountSaves(ctx context.Context, playerID model.PlayerID) (int, error) {
	count, err := s.client.LLen(ctx, savesKey(playerID)).Result()
	if err != nil {
		return 0, ioErr(err)
	}
	return int(count), nil
}
