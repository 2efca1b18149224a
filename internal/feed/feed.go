// Package feed turns a fetched channel snapshot into outage items.
//
// Two source formats are supported: the t.me/s HTML preview page of the
// channel, and an RSS mirror of the same channel. Both yield the same raw
// entries, which then pass through the normalizer and the schedule parser.
package feed

import (
	"strings"
	"time"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/schedule"
)

// Source extracts raw feed entries from a fetched page body.
type Source interface {
	Entries(body string) ([]model.FeedEntry, error)
}

// Extractor applies normalization, schedule classification and
// fingerprinting to raw feed entries. Entries that do not qualify as
// schedule broadcasts are dropped, not reported as errors.
type Extractor struct {
	source   Source
	linkBase string
	now      func() time.Time
}

// NewExtractor creates an Extractor over the given source. linkBase is the
// public channel URL used to build per-post links.
func NewExtractor(source Source, channelURL string) *Extractor {
	return &Extractor{
		source:   source,
		linkBase: PostBase(channelURL),
		now:      time.Now,
	}
}

// Extract parses a feed snapshot into schedule-bearing outage items,
// in feed order.
func (e *Extractor) Extract(body string) ([]model.OutageItem, error) {
	entries, err := e.source.Entries(body)
	if err != nil {
		return nil, err
	}

	var items []model.OutageItem
	for _, entry := range entries {
		if entry.ID == "" {
			continue
		}
		rawText := RawText(entry.BodyMarkup)
		if rawText == "" {
			continue
		}
		sched := schedule.ParseIfSchedule(rawText)
		if sched == nil {
			continue
		}

		item := model.OutageItem{
			ID:          entry.ID,
			Text:        FlatText(rawText),
			RawText:     rawText,
			Date:        entry.PublishedAt,
			URL:         e.linkBase + "/" + entry.ID,
			Schedule:    sched,
			ContentHash: schedule.HashContent(rawText),
		}
		if d, ok := schedule.ParseDate(rawText, e.now()); ok {
			item.ScheduleDateText = d.Text
			item.ScheduleDateIso = d.Iso
		}
		items = append(items, item)
	}
	return items, nil
}

// PostBase converts a channel preview URL like https://t.me/s/<name> into
// the base URL posts are linked under, https://t.me/<name>.
func PostBase(channelURL string) string {
	base := strings.Replace(channelURL, "/s/", "/", 1)
	return strings.TrimRight(base, "/")
}
