// Package state persists the reading cursor and reader settings between runs.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/metcalfc/digest/internal/catalog"
)

const stateFileName = "reading_state.json"

// Cursor is the article last open for a catalog origin.
type Cursor struct {
	Src  string `json:"src"`
	Text string `json:"text"`
}

type fileState struct {
	Settings Settings          `json:"settings"`
	Cursors  map[string]Cursor `json:"cursors"`
}

// StateStore manages persistent reading state
type StateStore struct {
	path string
	data fileState
	mu   sync.RWMutex
}

// NewStateStore creates or loads state from XDG_STATE_HOME/digest/
func NewStateStore() (*StateStore, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &StateStore{
		path: filepath.Join(dir, stateFileName),
		data: emptyState(),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = emptyState()
	}
	if store.data.Cursors == nil {
		store.data.Cursors = make(map[string]Cursor)
	}
	return store, nil
}

func emptyState() fileState {
	return fileState{Settings: DefaultSettings(), Cursors: make(map[string]Cursor)}
}

// getStateDir returns XDG_STATE_HOME/digest or ~/.local/state/digest
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "digest")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "digest")
}

// OriginKey derives the key for a catalog origin (server URL or library path).
func OriginKey(origin string) string {
	hash := sha256.Sum256([]byte(origin))
	return hex.EncodeToString(hash[:16])
}

// Cursor returns the saved article for origin, or the empty article.
func (s *StateStore) Cursor(origin string) catalog.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.data.Cursors[OriginKey(origin)]
	return catalog.Article{Src: c.Src, Text: c.Text}
}

// SetCursor saves the open article for origin.
func (s *StateStore) SetCursor(origin string, a catalog.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Cursors[OriginKey(origin)] = Cursor{Src: a.Src, Text: a.Text}
	return s.save()
}

// Clear removes the saved cursor for origin.
func (s *StateStore) Clear(origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Cursors, OriginKey(origin))
	return s.save()
}

// Settings returns the saved reader settings.
func (s *StateStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Settings
}

// SetSettings saves reader settings.
func (s *StateStore) SetSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings = settings
	return s.save()
}

func (s *StateStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *StateStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
