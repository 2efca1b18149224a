package watcher

import (
	"fmt"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/push"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/schedule"
	"github.com/Volodapatik/cherkasy-outage-watcher/internal/timeutil"
)

// Decision is a notification the engine decided to emit, along with the
// markers to remember once it has been sent.
type Decision struct {
	Payload           push.Payload
	ScheduleDateText  string
	ScheduleSignature string
}

// Decide evaluates the current latest item against the previously notified
// schedule date and signature. A new date always notifies; the same date
// notifies only when the schedule content changed; otherwise nil.
func Decide(item *model.OutageItem, prevDateText, prevSignature string) *Decision {
	if item == nil || !item.HasSchedule() {
		return nil
	}

	dateText := scheduleDateLabel(item)
	signature := schedule.Signature(item.Schedule)
	updateTime := timeutil.FormatTime(item.Date)

	switch {
	case prevDateText == "" || prevDateText != dateText:
		return &Decision{
			Payload:           payloadFor(fmt.Sprintf("Новий графік на %s (%s)", dateText, updateTime)),
			ScheduleDateText:  dateText,
			ScheduleSignature: signature,
		}
	case prevSignature == "" || prevSignature != signature:
		return &Decision{
			Payload:           payloadFor(fmt.Sprintf("Оновився графік на %s (%s)", dateText, updateTime)),
			ScheduleDateText:  dateText,
			ScheduleSignature: signature,
		}
	}
	return nil
}

func payloadFor(title string) push.Payload {
	return push.Payload{
		Title: title,
		Body:  "Натисни, щоб відкрити і переглянути деталі.",
		URL:   "/",
	}
}

// scheduleDateLabel prefers the date phrase parsed from the post, falling
// back to the localized ISO date and then the publish timestamp.
func scheduleDateLabel(item *model.OutageItem) string {
	if item.ScheduleDateText != "" {
		return item.ScheduleDateText
	}
	if item.ScheduleDateIso != "" {
		return timeutil.FormatDate(item.ScheduleDateIso)
	}
	return timeutil.FormatDate(item.Date)
}
