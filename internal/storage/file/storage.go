package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/storetycoon/backend/internal/model"
	"github.com/storetycoon/backend/internal/storage"
)

const storeFileName = "store.json"

// document is the single persisted JSON document. The three collections
// mirror the wire layout the game clients were shipped against: "users"
// holds players, "games" holds one summary per player, "saves" is the
// append-only history.
type document struct {
	Users []*model.Player           `json:"users"`
	Games []*model.SummaryRecord    `json:"games"`
	Saves []*model.SaveHistoryEntry `json:"saves"`
}

// Storage is a file-backed implementation of the storage interface. Every
// operation reads the full document from disk, applies the change, and
// rewrites the document atomically; no long-lived in-memory copy exists.
//
// A single mutex serializes all operations, so one Storage instance is
// safe for concurrent use. Two processes sharing the same data directory
// are not safe: the whole document is rewritten on each write.
type Storage struct {
	mu   sync.Mutex
	path string
}

// New creates a file storage rooted at dataDir, creating the directory
// on first use.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", model.ErrStorageIO, err)
	}
	return &Storage{path: filepath.Join(dataDir, storeFileName)}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, fmt.Errorf("%w: read store: %w", model.ErrStorageIO, err)
	}
	if len(raw) == 0 {
		return &document{}, nil
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode store: %w", model.ErrStorageIO, err)
	}
	return &doc, nil
}

// write persists the document via a temp file and rename, so readers
// never observe a partially written store.
func (s *Storage) write(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode store: %w", model.ErrStorageIO, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write store: %w", model.ErrStorageIO, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace store: %w", model.ErrStorageIO, err)
	}
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	for i, p := range doc.Users {
		if p.ID == player.ID {
			doc.Users[i] = player
			return s.write(doc)
		}
	}
	doc.Users = append(doc.Users, player)
	return s.write(doc)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range doc.Users {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// Summary operations

func (s *Storage) SaveSummary(ctx context.Context, summary *model.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	for i, g := range doc.Games {
		if g.PlayerID == summary.PlayerID {
			doc.Games[i] = summary
			return s.write(doc)
		}
	}
	doc.Games = append(doc.Games, summary)
	return s.write(doc)
}

func (s *Storage) GetSummary(ctx context.Context, playerID model.PlayerID) (*model.SummaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, g := range doc.Games {
		if g.PlayerID == playerID {
			return g, nil
		}
	}
	return nil, model.ErrSummaryNotFound
}

func (s *Storage) ListSummaries(ctx context.Context) ([]*model.SummaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Games, nil
}

// Save history operations

func (s *Storage) AppendSave(ctx context.Context, entry *model.SaveHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Saves = append(doc.Saves, entry)
	return s.write(doc)
}

func (s *Storage) ListSaves(ctx context.Context, playerID model.PlayerID) ([]*model.SaveHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var entries []*model.SaveHistoryEntry
	for _, e := range doc.Saves {
		if e.PlayerID == playerID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *Storage) CountSaves(ctx context.Context, playerID model.PlayerID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range doc.Saves {
		if e.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}
