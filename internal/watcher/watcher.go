// Package watcher runs the poll cycle: fetch, extract, merge, persist, notify.
package watcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/push"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/schedule"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/storage"
)

// PageFetcher downloads the channel page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns a page body into outage items.
type Extractor interface {
	Extract(body string) ([]model.OutageItem, error)
}

// ChatNotifier forwards changed items to a chat. May be nil-implemented
// when the chat transport is not configured.
type ChatNotifier interface {
	NotifyItems(items []model.OutageItem)
}

// PushSender delivers a push payload to all subscribers.
type PushSender interface {
	Send(ctx context.Context, payload push.Payload) error
}

// Watcher owns the in-memory state. Only the poll cycle mutates it; HTTP
// handlers read copies through the accessor methods.
type Watcher struct {
	channelURL string
	fetcher    PageFetcher
	extractor  Extractor
	store      storage.StateStore
	chat       ChatNotifier
	pusher     PushSender
	log        *slog.Logger
	interval   time.Duration

	mu    sync.RWMutex
	state model.State
}

// New creates a Watcher. chat and pusher may be nil when the corresponding
// transport is disabled.
func New(channelURL string, fetcher PageFetcher, extractor Extractor, store storage.StateStore,
	chat ChatNotifier, pusher PushSender, interval time.Duration, log *slog.Logger) *Watcher {
	return &Watcher{
		channelURL: channelURL,
		fetcher:    fetcher,
		extractor:  extractor,
		store:      store,
		chat:       chat,
		pusher:     pusher,
		log:        log,
		interval:   interval,
	}
}

// LoadState restores persisted state and seeds the notification markers from
// the stored latest item so a restart does not re-announce it.
func (w *Watcher) LoadState() error {
	latest, err := w.store.LoadLatest()
	if err != nil {
		return err
	}
	history, err := w.store.LoadHistory()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Latest = latest
	w.state.History = history
	if latest != nil {
		w.state.LastSentScheduleDateText = scheduleDateLabel(latest)
		w.state.LastSentScheduleSig = schedule.Signature(latest.Schedule)
	}
	return nil
}

// Run polls once immediately, then on a fixed interval until ctx is
// cancelled. A failing cycle is logged and skipped; the ticker carries on.
func (w *Watcher) Run(ctx context.Context) {
	w.Poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll runs one full cycle. Cycles never overlap: Run invokes Poll
// sequentially from a single goroutine.
func (w *Watcher) Poll(ctx context.Context) {
	body, err := w.fetcher.Fetch(ctx, w.channelURL)
	if err != nil {
		w.log.Error("fetch channel", "url", w.channelURL, "error", err)
		return
	}

	parsed, err := w.extractor.Extract(body)
	if err != nil {
		w.log.Error("extract entries", "error", err)
		return
	}
	if len(parsed) == 0 {
		return
	}

	w.mu.Lock()
	changed := Merge(&w.state, parsed)
	latest := w.state.Latest
	history := append([]model.OutageItem(nil), w.state.History...)
	w.mu.Unlock()

	if err := w.store.SaveLatest(latest); err != nil {
		w.log.Error("persist latest", "error", err)
		return
	}
	if err := w.store.SaveHistory(history); err != nil {
		w.log.Error("persist history", "error", err)
		return
	}

	for _, item := range changed {
		w.log.Info("saved schedule", "id", item.ID, "date", item.Date)
		if log := formatScheduleLog(item); log != "" {
			w.log.Debug("schedule", "id", item.ID, "table", log)
		}
	}

	if w.chat != nil && len(changed) > 0 {
		w.chat.NotifyItems(changed)
	}
	w.notifyPush(ctx)
}

// notifyPush runs the decision engine against the current latest item and,
// when it fires, commits the markers regardless of delivery success.
func (w *Watcher) notifyPush(ctx context.Context) {
	w.mu.RLock()
	latest := w.state.Latest
	prevDate := w.state.LastSentScheduleDateText
	prevSig := w.state.LastSentScheduleSig
	w.mu.RUnlock()

	decision := Decide(latest, prevDate, prevSig)
	if decision == nil {
		return
	}

	if w.pusher != nil {
		if err := w.pusher.Send(ctx, decision.Payload); err != nil {
			w.log.Error("send push", "error", err)
		}
	}

	w.mu.Lock()
	w.state.LastSentScheduleDateText = decision.ScheduleDateText
	w.state.LastSentScheduleSig = decision.ScheduleSignature
	w.mu.Unlock()
}

// Latest returns a copy of the current latest item, or nil.
func (w *Watcher) Latest() *model.OutageItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.state.Latest == nil {
		return nil
	}
	copied := *w.state.Latest
	return &copied
}

// History returns a copy of the current history, oldest first.
func (w *Watcher) History() []model.OutageItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.OutageItem(nil), w.state.History...)
}

// DebugResult is the outcome of a parse-only run over an arbitrary body.
type DebugResult struct {
	Count  int                `json:"count"`
	Latest *model.OutageItem  `json:"latest"`
	Items  []model.OutageItem `json:"items"`
}

// DebugParse extracts a body without touching persisted state.
func (w *Watcher) DebugParse(body string) (DebugResult, error) {
	items, err := w.extractor.Extract(body)
	if err != nil {
		return DebugResult{}, err
	}
	return DebugResult{
		Count:  len(items),
		Latest: PickLatest(items),
		Items:  items,
	}, nil
}

// ChannelURL returns the watched channel URL.
func (w *Watcher) ChannelURL() string {
	return w.channelURL
}

func formatScheduleLog(item model.OutageItem) string {
	if !item.HasSchedule() {
		return ""
	}
	lines := make([]string, 0, len(item.Schedule))
	for _, entry := range item.Schedule {
		lines = append(lines, entry.Queue+": "+strings.Join(entry.Ranges, ", "))
	}
	return strings.Join(lines, "\n")
}
