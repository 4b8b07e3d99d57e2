package domain

import (
	"testing"
	"time"
)

func TestFormatSpanMs(t *testing.T) {
	tests := []struct {
		spanMs   int64
		expected string
	}{
		{0, "0m"},
		{-5000, "0m"},
		{59 * 60_000, "59 minutes"},
		{125 * 60_000, "2h 5m"},
		{30 * 3_600_000, "1d 6h"},
		{24 * 3_600_000, "1d 0h"},
		{90_000, "1 minutes"},
	}

	for _, tt := range tests {
		if got := FormatSpanMs(tt.spanMs); got != tt.expected {
			t.Errorf("FormatSpanMs(%d): expected %q, got %q", tt.spanMs, tt.expected, got)
		}
	}
}

func TestRollingHoursLowerBound(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	w := RollingHours(24)

	expected := now.UnixMilli() - 24*3_600_000
	if got := w.LowerBoundMs(now); got != expected {
		t.Errorf("Expected lower bound %d, got %d", expected, got)
	}
}

func TestCalendarDayUTCLowerBound(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 30, 45, 0, time.UTC)
	w := CalendarDayUTC()

	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := w.LowerBoundMs(now); got != midnight.UnixMilli() {
		t.Errorf("Expected lower bound %d, got %d", midnight.UnixMilli(), got)
	}
}

func TestContainsMs_CalendarDayEdges(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	w := CalendarDayUTC()
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC).UnixMilli()

	if w.ContainsMs(midnight-1, now) {
		t.Error("Expected 23:59:59.999 of yesterday to be excluded")
	}
	if !w.ContainsMs(midnight+1, now) {
		t.Error("Expected 00:00:00.001 of today to be included")
	}
}

func TestFormatTimestampMs(t *testing.T) {
	ts := time.Date(2024, 6, 15, 9, 5, 3, 0, time.UTC).UnixMilli()
	expected := "2024-06-15 09:05:03 UTC"
	if got := FormatTimestampMs(ts); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestNewTimeRange(t *testing.T) {
	base := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	messages := []Message{
		{TimestampMs: base + 125*60_000},
		{TimestampMs: base},
		{TimestampMs: 0}, // absent, ignored
	}

	tr := NewTimeRange(messages)
	if tr.TimeSpan != "2h 5m" {
		t.Errorf("Expected span 2h 5m, got %q", tr.TimeSpan)
	}
	if tr.FirstMessageTime != FormatTimestampMs(base) {
		t.Errorf("Expected first %q, got %q", FormatTimestampMs(base), tr.FirstMessageTime)
	}
}

func TestNewTimeRange_FewTimestamps(t *testing.T) {
	if tr := NewTimeRange(nil); tr.TimeSpan != "0m" {
		t.Errorf("Expected 0m for empty set, got %q", tr.TimeSpan)
	}
	if tr := NewTimeRange([]Message{{TimestampMs: 12345}}); tr.TimeSpan != "0m" {
		t.Errorf("Expected 0m for single timestamp, got %q", tr.TimeSpan)
	}
}
