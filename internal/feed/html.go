package feed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// HTMLSource reads the t.me/s preview page of a public Telegram channel.
type HTMLSource struct{}

// Entries extracts one FeedEntry per message widget on the page. Widgets
// without a post id or a text node are skipped.
func (HTMLSource) Entries(body string) ([]model.FeedEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse channel html: %w", err)
	}

	var entries []model.FeedEntry
	doc.Find(".tgme_widget_message_wrap").Each(func(_ int, sel *goquery.Selection) {
		postID, ok := sel.Find(".tgme_widget_message").Attr("data-post")
		if !ok {
			return
		}
		// data-post is "<channel>/<id>"; only the numeric tail matters.
		id := postID[strings.LastIndex(postID, "/")+1:]
		if id == "" {
			return
		}

		datetime, _ := sel.Find(".tgme_widget_message_date time").Attr("datetime")
		markup, err := sel.Find(".tgme_widget_message_text").Html()
		if err != nil {
			return
		}

		entries = append(entries, model.FeedEntry{
			ID:          id,
			PublishedAt: datetime,
			BodyMarkup:  markup,
		})
	})
	return entries, nil
}
