// Package schedule extracts outage schedules from free-form post text.
//
// The channel announces schedules as a loose table of queue labels
// ("3.1", "4.2", ...) followed by time ranges, plus a date phrase like
// "на 5 травня". Everything here is pure pattern matching over raw text.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// MinQueueEntries is the classification threshold: posts that mention fewer
// queue entries are treated as passing references, not schedule broadcasts.
const MinQueueEntries = 4

var monthNumbers = map[string]string{
	"січня":     "01",
	"лютого":    "02",
	"березня":   "03",
	"квітня":    "04",
	"травня":    "05",
	"червня":    "06",
	"липня":     "07",
	"серпня":    "08",
	"вересня":   "09",
	"жовтня":    "10",
	"листопада": "11",
	"грудня":    "12",
}

var (
	dateRe = regexp.MustCompile(`(?i)(\d{1,2})\s+(січня|лютого|березня|квітня|травня|червня|липня|серпня|вересня|жовтня|листопада|грудня)`)

	dashRe       = regexp.MustCompile(`[–—]`)
	queueColonRe = regexp.MustCompile(`([1-6]\.[12])\s*:`)
	spaceRe      = regexp.MustCompile(`\s+`)

	// Queue labels must be anchored at start of text or after whitespace so
	// "13.1" never yields queue "3.1".
	queueRe = regexp.MustCompile(`(^|\s)([1-6]\.[12])\s`)
	rangeRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)
)

// Date is the calendar date a schedule governs, as announced in the text.
type Date struct {
	Text string // e.g. "5 травня"
	Iso  string // e.g. "2026-05-05"
}

// ParseDate finds the first "<day> <genitive month>" phrase in rawText.
// The source never states a year, so the ISO form borrows the year from now;
// dates announced across a year boundary come out wrong. Known limitation.
func ParseDate(rawText string, now time.Time) (Date, bool) {
	m := dateRe.FindStringSubmatch(rawText)
	if m == nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return Date{}, false
	}
	monthName := strings.ToLower(m[2])
	return Date{
		Text: fmt.Sprintf("%d %s", day, monthName),
		Iso:  fmt.Sprintf("%d-%s-%02d", now.Year(), monthNumbers[monthName], day),
	}, true
}

// Parse scans rawText for queue labels and the time ranges that follow each
// of them. Queue entries come out in source order; ranges keep duplicates.
func Parse(rawText string) []model.ScheduleEntry {
	compact := normalize(rawText)

	locs := queueRe.FindAllStringSubmatchIndex(compact, -1)
	if locs == nil {
		return nil
	}

	var entries []model.ScheduleEntry
	for i, loc := range locs {
		// loc[4]:loc[5] is the queue label group; the segment for this
		// queue runs until the next label (or end of text).
		start := loc[4]
		end := len(compact)
		if i+1 < len(locs) {
			end = locs[i+1][4]
		}
		segment := compact[start:end]

		var ranges []string
		for _, rm := range rangeRe.FindAllStringSubmatch(segment, -1) {
			from := padTime(rm[1])
			to := normalizeRangeEnd(from, padTime(rm[2]))
			ranges = append(ranges, from+"-"+to)
		}
		if len(ranges) > 0 {
			entries = append(entries, model.ScheduleEntry{
				Queue:  compact[loc[4]:loc[5]],
				Ranges: ranges,
			})
		}
	}
	return entries
}

// ParseIfSchedule classifies rawText as a schedule broadcast and returns the
// parsed entries, or nil when the post does not qualify.
func ParseIfSchedule(rawText string) []model.ScheduleEntry {
	entries := Parse(rawText)
	if len(entries) < MinQueueEntries {
		return nil
	}
	return entries
}

func normalize(rawText string) string {
	s := dashRe.ReplaceAllString(rawText, "-")
	s = queueColonRe.ReplaceAllString(s, "$1")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func padTime(v string) string {
	h, m, ok := strings.Cut(v, ":")
	if !ok {
		return v
	}
	if len(h) == 1 {
		h = "0" + h
	}
	return h + ":" + m
}

// normalizeRangeEnd rewrites a midnight end to "24:00" when the range runs
// across midnight, so "23:30-00:00" sorts and displays as a same-day range.
func normalizeRangeEnd(start, end string) string {
	if end == "00:00" && start != "00:00" && toMinutes(start) > toMinutes(end) {
		return "24:00"
	}
	return end
}

func toMinutes(v string) int {
	h, m, _ := strings.Cut(v, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}
