package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id             TEXT PRIMARY KEY,
	display_name   TEXT NOT NULL,
	handle         TEXT NOT NULL DEFAULT '',
	game_state     BLOB,
	created_at     INTEGER NOT NULL,
	last_active_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS summaries (
	user_id           TEXT PRIMARY KEY,
	total_earned      REAL NOT NULL,
	reputation        REAL NOT NULL,
	play_time_minutes REAL NOT NULL,
	last_played_at    INTEGER NOT NULL,
	created_at        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS saves (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	save_data      BLOB NOT NULL,
	stats          TEXT NOT NULL,
	timestamp      INTEGER NOT NULL,
	format_version INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saves_user ON saves(user_id);
`

// Storage persists tycoon state in SQLite. Insertion order for list
// operations comes from rowid; upserts keep the original rowid, so a
// player's position in the order never changes.
type Storage struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies the schema.
func Open(path string) (*Storage, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %w", model.ErrStorageIO, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %w", model.ErrStorageIO, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func ioErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", model.ErrStorageIO, err)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	var state []byte
	if player.GameState != nil {
		state = player.GameState
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, display_name, handle, game_state, created_at, last_active_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = excluded.display_name,
		   handle = excluded.handle,
		   game_state = excluded.game_state,
		   last_active_at = excluded.last_active_at`,
		string(player.ID),
		player.DisplayName,
		player.Handle,
		state,
		toMillis(player.CreatedAt),
		toMillis(player.LastActiveAt),
	)
	return ioErr(err)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, handle, game_state, created_at, last_active_at
		 FROM players WHERE id = ?`, string(id))
	return scanPlayer(row)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, handle, game_state, created_at, last_active_at
		 FROM players ORDER BY rowid`)
	if err != nil {
		return nil, ioErr(err)
	}
	defer func() { _ = rows.Close() }()

	var players []*model.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, ioErr(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		player     model.Player
		id         string
		state      []byte
		createdAt  int64
		lastActive int64
	)
	err := row.Scan(&id, &player.DisplayName, &player.Handle, &state, &createdAt, &lastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, ioErr(err)
	}
	player.ID = model.PlayerID(id)
	if len(state) > 0 {
		player.GameState = json.RawMessage(state)
	}
	player.CreatedAt = fromMillis(createdAt)
	player.LastActiveAt = fromMillis(lastActive)
	return &player, nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.SummaryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (user_id, total_earned, reputation, play_time_minutes, last_played_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_earned = excluded.total_earned,
		   reputation = excluded.reputation,
		   play_time_minutes = excluded.play_time_minutes,
		   last_played_at = excluded.last_played_at`,
		string(summary.PlayerID),
		summary.TotalEarned,
		summary.Reputation,
		summary.PlayTimeMinutes,
		toMillis(summary.LastPlayedAt),
		toMillis(summary.CreatedAt),
	)
	return ioErr(err)
}

func (s *Storage) GetSummary(ctx context.Context, playerID model.PlayerID) (*model.SummaryRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, total_earned, reputation, play_time_minutes, last_played_at, created_at
		 FROM summaries WHERE user_id = ?`, string(playerID))
	summary, err := scanSummary(row)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, model.ErrSummaryNotFound
	}
	return summary, err
}

func (s *Storage) ListSummaries(ctx context.Context) ([]*model.SummaryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, total_earned, reputation, play_time_minutes, last_played_at, created_at
		 FROM summaries ORDER BY rowid`)
	if err != nil {
		return nil, ioErr(err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []*model.SummaryRecord
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, ioErr(rows.Err())
}

func scanSummary(row rowScanner) (*model.SummaryRecord, error) {
	var (
		summary    model.SummaryRecord
		id         string
		lastPlayed int64
		createdAt  int64
	)
	err := row.Scan(&id, &summary.TotalEarned, &summary.Reputation, &summary.PlayTimeMinutes, &lastPlayed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, ioErr(err)
	}
	summary.PlayerID = model.PlayerID(id)
	summary.LastPlayedAt = fromMillis(lastPlayed)
	summary.CreatedAt = fromMillis(createdAt)
	return &summary, nil
}

// Save history operations

func (s *Storage) AppendSave(ctx context.Context, entry *model.SaveHistoryEntry) error {
	stats, err := json.Marshal(entry.Stats)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (id, user_id, save_data, stats, timestamp, format_version)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.ID),
		string(entry.PlayerID),
		[]byte(entry.SaveData),
		string(stats),
		toMillis(entry.Timestamp),
		entry.FormatVersion,
	)
	return ioErr(err)
}

func (s *Storage) ListSaves(ctx context.Context, playerID model.PlayerID) ([]*model.SaveHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, save_data, stats, timestamp, format_version
		 FROM saves WHERE user_id = ? ORDER BY rowid`, string(playerID))
	if err != nil {
		return nil, ioErr(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*model.SaveHistoryEntry
	for rows.Next() {
		var (
			entry     model.SaveHistoryEntry
			id        string
			userID    string
			saveData  []byte
			stats     string
			timestamp int64
		)
		if err := rows.Scan(&id, &userID, &saveData, &stats, &timestamp, &entry.FormatVersion); err != nil {
			return nil, ioErr(err)
		}
		entry.ID = model.SaveID(id)
		entry.PlayerID = model.PlayerID(userID)
		entry.SaveData = json.RawMessage(saveData)
		if err := json.Unmarshal([]byte(stats), &entry.Stats); err != nil {
			return nil, err
		}
		entry.Timestamp = fromMillis(timestamp)
		entries = append(entries, &entry)
	}
	return entries, ioErr(rows.Err())
}

func (s *Storage) CountSaves(ctx context.Context, playerID model.PlayerID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saves WHERE user_id = ?`, string(playerID)).Scan(&count)
	if err != nil {
		return 0, ioErr(err)
	}
	return count, nil
}
