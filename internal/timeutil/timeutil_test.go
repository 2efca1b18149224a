package timeutil

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"rfc3339 timestamp", "2026-05-04T18:30:00+00:00", "4 травня 2026"},
		{"plain date", "2026-05-05", "5 травня 2026"},
		{"empty value", "", "—"},
		{"unparseable passthrough", "вчора", "вчора"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.value); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	// 18:30 UTC is 21:30 in Kyiv (summer time).
	if got := FormatTime("2026-05-04T18:30:00+00:00"); got != "21:30" {
		t.Errorf("FormatTime() = %q, want 21:30", got)
	}
	if got := FormatTime(""); got != "—" {
		t.Errorf("FormatTime(\"\") = %q, want placeholder", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime("2026-05-04T18:30:00+00:00"); got != "4 травня 2026, 21:30" {
		t.Errorf("FormatDateTime() = %q", got)
	}
}
