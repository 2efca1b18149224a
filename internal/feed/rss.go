package feed

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// RSSSource reads the channel through an RSS mirror (e.g. an RSSHub bridge).
// Mirrors keep the Telegram post id as the tail of the item GUID, which keeps
// entry identity stable across the HTML and RSS source formats.
type RSSSource struct {
	parser *gofeed.Parser
}

// NewRSSSource creates an RSSSource.
func NewRSSSource() *RSSSource {
	return &RSSSource{parser: gofeed.NewParser()}
}

// Entries parses an RSS document into raw feed entries, in feed order.
func (s *RSSSource) Entries(body string) ([]model.FeedEntry, error) {
	parsed, err := s.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var entries []model.FeedEntry
	for _, item := range parsed.Items {
		entries = append(entries, model.FeedEntry{
			ID:          itemID(item),
			PublishedAt: itemPublished(item),
			BodyMarkup:  itemBody(item),
		})
	}
	return entries, nil
}

// itemID returns the trailing path segment of the item GUID or link, which
// for Telegram mirrors is the numeric post id. Items with neither get a
// content-derived fallback id.
func itemID(item *gofeed.Item) string {
	for _, candidate := range []string{item.GUID, item.Link} {
		candidate = strings.TrimRight(candidate, "/")
		if candidate == "" {
			continue
		}
		return candidate[strings.LastIndex(candidate, "/")+1:]
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Description))
	return fmt.Sprintf("sha256:%x", h[:16])
}

func itemPublished(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return item.Published
}

func itemBody(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}
