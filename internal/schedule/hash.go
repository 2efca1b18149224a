package schedule

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// HashContent fingerprints the exact raw text of a post. Any byte-level
// change, including whitespace, produces a different hash.
func HashContent(rawText string) string {
	h := sha256.Sum256([]byte(rawText))
	return fmt.Sprintf("%x", h)
}

// Signature fingerprints a schedule's queue→ranges content independent of
// the order queues and ranges appear in the source text. An empty schedule
// signs the empty string.
func Signature(entries []model.ScheduleEntry) string {
	return HashContent(canonical(entries))
}

func canonical(entries []model.ScheduleEntry) string {
	if len(entries) == 0 {
		return ""
	}
	normalized := make([]model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		ranges := make([]string, 0, len(e.Ranges))
		for _, r := range e.Ranges {
			ranges = append(ranges, strings.TrimSpace(r))
		}
		sort.Strings(ranges)
		normalized = append(normalized, model.ScheduleEntry{
			Queue:  strings.TrimSpace(e.Queue),
			Ranges: ranges,
		})
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Queue < normalized[j].Queue
	})

	parts := make([]string, 0, len(normalized))
	for _, e := range normalized {
		parts = append(parts, e.Queue+":"+strings.Join(e.Ranges, ","))
	}
	return strings.Join(parts, "|")
}
