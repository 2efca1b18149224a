// Package timeutil renders timestamps as Ukrainian labels in Kyiv time.
package timeutil

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // Kyiv zone data independent of the host system.
)

const placeholder = "—"

var months = [12]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

var kyiv = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		return time.UTC
	}
	return loc
})

// FormatDate renders a timestamp as "5 травня 2026". Unparseable values are
// returned as-is, empty values as a placeholder.
func FormatDate(value string) string {
	t, ok := parse(value)
	if !ok {
		return fallback(value)
	}
	t = t.In(kyiv())
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// FormatTime renders a timestamp as "15:04" Kyiv time.
func FormatTime(value string) string {
	t, ok := parse(value)
	if !ok {
		return fallback(value)
	}
	return t.In(kyiv()).Format("15:04")
}

// FormatDateTime renders a timestamp as "5 травня 2026, 15:04".
func FormatDateTime(value string) string {
	t, ok := parse(value)
	if !ok {
		return fallback(value)
	}
	t = t.In(kyiv())
	return fmt.Sprintf("%d %s %d, %s", t.Day(), months[t.Month()-1], t.Year(), t.Format("15:04"))
}

func parse(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fallback(value string) string {
	if value == "" {
		return placeholder
	}
	return value
}
