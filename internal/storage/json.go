package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/schedule"
)

const (
	latestFile  = "latest.json"
	historyFile = "history.json"
)

// JSONStore implements StateStore with two JSON documents in a data
// directory. Writes go to a temp file first and are renamed into place, so
// concurrent readers never see a partial document.
type JSONStore struct {
	dataDir string
}

// NewJSONStore creates the data directory if needed and returns a store
// rooted in it.
func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONStore{dataDir: dataDir}, nil
}

// LoadLatest reads the stored latest item, or nil when the file is missing
// or unreadable.
func (s *JSONStore) LoadLatest() (*model.OutageItem, error) {
	var item *model.OutageItem
	if !s.readJSON(latestFile, &item) {
		return nil, nil
	}
	if item != nil {
		upgradeItem(item)
	}
	return item, nil
}

// LoadHistory reads the stored history, or an empty slice when the file is
// missing or unreadable.
func (s *JSONStore) LoadHistory() ([]model.OutageItem, error) {
	var items []model.OutageItem
	if !s.readJSON(historyFile, &items) {
		return nil, nil
	}
	for i := range items {
		upgradeItem(&items[i])
	}
	return items, nil
}

// SaveLatest atomically replaces the latest document.
func (s *JSONStore) SaveLatest(item *model.OutageItem) error {
	return s.writeJSON(latestFile, item)
}

// SaveHistory atomically replaces the history document.
func (s *JSONStore) SaveHistory(items []model.OutageItem) error {
	if items == nil {
		items = []model.OutageItem{}
	}
	return s.writeJSON(historyFile, items)
}

func (s *JSONStore) readJSON(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *JSONStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// upgradeItem backfills the content hash for items stored before the hash
// field existed, deriving it from the retained raw text.
func upgradeItem(item *model.OutageItem) {
	if item.ContentHash != "" {
		return
	}
	source := item.RawText
	if source == "" {
		source = item.Text
	}
	item.ContentHash = schedule.HashContent(source)
}
