package schedule

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

func TestHashContent(t *testing.T) {
	text := "3.1 09:00-13:00\n3.2 13:00-17:00"

	if HashContent(text) != HashContent(text) {
		t.Error("hashing the same text twice must be stable")
	}
	// The content hash is exact: whitespace variants are different content.
	if HashContent(text) == HashContent(text+" ") {
		t.Error("whitespace variant must hash differently")
	}
	if HashContent("") != fmt.Sprintf("%x", sha256.Sum256(nil)) {
		t.Error("empty text must hash the empty byte string")
	}
}

func TestSignatureOrderInsensitive(t *testing.T) {
	a := []model.ScheduleEntry{
		{Queue: "3.1", Ranges: []string{"09:00-13:00", "17:00-21:00"}},
		{Queue: "3.2", Ranges: []string{"13:00-17:00"}},
	}
	queuesPermuted := []model.ScheduleEntry{
		{Queue: "3.2", Ranges: []string{"13:00-17:00"}},
		{Queue: "3.1", Ranges: []string{"09:00-13:00", "17:00-21:00"}},
	}
	rangesPermuted := []model.ScheduleEntry{
		{Queue: "3.1", Ranges: []string{"17:00-21:00", "09:00-13:00"}},
		{Queue: "3.2", Ranges: []string{"13:00-17:00"}},
	}
	differentContent := []model.ScheduleEntry{
		{Queue: "3.1", Ranges: []string{"09:00-13:00"}},
		{Queue: "3.2", Ranges: []string{"13:00-17:00"}},
	}

	if Signature(a) != Signature(queuesPermuted) {
		t.Error("queue order must not affect the signature")
	}
	if Signature(a) != Signature(rangesPermuted) {
		t.Error("range order must not affect the signature")
	}
	if Signature(a) == Signature(differentContent) {
		t.Error("different range sets must sign differently")
	}
}

func TestSignatureEmptySchedule(t *testing.T) {
	if Signature(nil) != HashContent("") {
		t.Error("empty schedule must sign the empty string")
	}
	if Signature([]model.ScheduleEntry{}) != HashContent("") {
		t.Error("zero-length schedule must sign the empty string")
	}
}

func TestSignatureTrimsLabels(t *testing.T) {
	padded := []model.ScheduleEntry{
		{Queue: " 3.1 ", Ranges: []string{" 09:00-13:00 "}},
	}
	clean := []model.ScheduleEntry{
		{Queue: "3.1", Ranges: []string{"09:00-13:00"}},
	}
	if Signature(padded) != Signature(clean) {
		t.Error("padding around labels and ranges must not affect the signature")
	}
}
