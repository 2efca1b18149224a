package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/schedule"
)

func newTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("new json store: %v", err)
	}
	return s, dir
}

func TestJSONStoreRoundTrip(t *testing.T) {
	s, _ := newTestJSONStore(t)

	item := &model.OutageItem{
		ID:      "77",
		Date:    "2026-05-04T18:30:00+00:00",
		Text:    "3.1 09:00-13:00",
		RawText: "3.1 09:00-13:00",
		URL:     "https://t.me/pat_cherkasyoblenergo/77",
		Schedule: []model.ScheduleEntry{
			{Queue: "3.1", Ranges: []string{"09:00-13:00"}},
		},
		ContentHash: schedule.HashContent("3.1 09:00-13:00"),
	}

	if err := s.SaveLatest(item); err != nil {
		t.Fatalf("save latest: %v", err)
	}
	if err := s.SaveHistory([]model.OutageItem{*item}); err != nil {
		t.Fatalf("save history: %v", err)
	}

	gotLatest, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if diff := cmp.Diff(item, gotLatest); diff != "" {
		t.Errorf("latest mismatch (-want +got):\n%s", diff)
	}

	gotHistory, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if diff := cmp.Diff([]model.OutageItem{*item}, gotHistory); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreMissingFiles(t *testing.T) {
	s, _ := newTestJSONStore(t)

	latest, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest != nil {
		t.Errorf("missing latest should load as nil, got %+v", latest)
	}

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("missing history should load empty, got %d items", len(history))
	}
}

func TestJSONStoreCorruptFiles(t *testing.T) {
	s, dir := newTestJSONStore(t)

	if err := os.WriteFile(filepath.Join(dir, "latest.json"), []byte("{not json"), 0o640); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	latest, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest != nil {
		t.Errorf("corrupt latest should load as nil, got %+v", latest)
	}
}

func TestJSONStoreBackfillsContentHash(t *testing.T) {
	s, dir := newTestJSONStore(t)

	// An item written before the contentHash field existed.
	stored := `{"id":"50","date":"2026-05-01T10:00:00+00:00","text":"3.1 09:00-13:00","rawText":"3.1 09:00-13:00"}`
	if err := os.WriteFile(filepath.Join(dir, "latest.json"), []byte(stored), 0o640); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "history.json"), []byte("["+stored+"]"), 0o640); err != nil {
		t.Fatalf("write legacy history: %v", err)
	}

	latest, err := s.LoadLatest()
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	want := schedule.HashContent("3.1 09:00-13:00")
	if diff := cmp.Diff(want, latest.ContentHash); diff != "" {
		t.Errorf("latest hash mismatch (-want +got):\n%s", diff)
	}

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(history))
	}
	if diff := cmp.Diff(want, history[0].ContentHash); diff != "" {
		t.Errorf("history hash mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreWritesAtomically(t *testing.T) {
	s, dir := newTestJSONStore(t)

	if err := s.SaveHistory(nil); err != nil {
		t.Fatalf("save history: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "history.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should not survive a completed write")
	}
	data, err := os.ReadFile(filepath.Join(dir, "history.json"))
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil history should persist as [], got %q", string(data))
	}
}
