// Package model defines the domain types used across the application.
package model

// ScheduleEntry is one outage queue and its time ranges for a single day.
type ScheduleEntry struct {
	Queue  string   `json:"queue"`
	Ranges []string `json:"ranges"`
}

// OutageItem is one schedule-bearing post from the channel.
type OutageItem struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	RawText          string          `json:"rawText,omitempty"`
	Date             string          `json:"date"`
	URL              string          `json:"url"`
	Schedule         []ScheduleEntry `json:"schedule,omitempty"`
	ScheduleDateText string          `json:"scheduleDateText,omitempty"`
	ScheduleDateIso  string          `json:"scheduleDateIso,omitempty"`
	ContentHash      string          `json:"contentHash"`
}

// HasSchedule reports whether the item carries a parsed schedule.
func (i *OutageItem) HasSchedule() bool {
	return len(i.Schedule) > 0
}

// State is the in-memory watcher state, owned by a single poll loop.
type State struct {
	Latest                   *OutageItem
	History                  []OutageItem
	LastSentScheduleDateText string
	LastSentScheduleSig      string
}

// PushSubscription is one browser push endpoint with its encryption keys.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// FeedEntry is one raw post as it appears in a fetched feed snapshot.
// It only lives for the duration of a poll cycle.
type FeedEntry struct {
	ID          string
	PublishedAt string
	BodyMarkup  string
}
