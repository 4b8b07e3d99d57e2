package domain

import (
	"fmt"
	"time"
)

// WindowKind selects how a time window derives its lower bound
type WindowKind int

const (
	// WindowRollingHours covers [now - n hours, now]
	WindowRollingHours WindowKind = iota
	// WindowCalendarDayUTC covers [midnight UTC today, now]
	WindowCalendarDayUTC
)

// TimeWindow is a bounded time range ending at the current instant.
// Bounds are computed once per analysis call from the caller's clock;
// the window itself carries no absolute times.
type TimeWindow struct {
	Kind  WindowKind
	Hours int // rolling windows only
}

// RollingHours returns a window covering the last n hours
func RollingHours(n int) TimeWindow {
	return TimeWindow{Kind: WindowRollingHours, Hours: n}
}

// CalendarDayUTC returns a window covering the current UTC calendar day
func CalendarDayUTC() TimeWindow {
	return TimeWindow{Kind: WindowCalendarDayUTC}
}

// LowerBoundMs returns the inclusive lower bound of the window ending
// at now, in epoch milliseconds
func (w TimeWindow) LowerBoundMs(now time.Time) int64 {
	if w.Kind == WindowCalendarDayUTC {
		u := now.UTC()
		midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		return midnight.UnixMilli()
	}
	return now.UnixMilli() - int64(w.Hours)*3_600_000
}

// ContainsMs reports whether a millisecond timestamp falls inside the
// window ending at now
func (w TimeWindow) ContainsMs(tsMs int64, now time.Time) bool {
	return tsMs >= w.LowerBoundMs(now)
}

// FormatSpanMs renders a millisecond span for display. Spans under an
// hour read "{m} minutes", under a day "{h}h {m}m", a day or more
// "{d}d {h}h". Non-positive spans (zero or one timestamp) read "0m".
func FormatSpanMs(spanMs int64) string {
	if spanMs <= 0 {
		return "0m"
	}
	totalMin := spanMs / 60_000
	switch {
	case totalMin < 60:
		return fmt.Sprintf("%d minutes", totalMin)
	case totalMin < 24*60:
		return fmt.Sprintf("%dh %dm", totalMin/60, totalMin%60)
	default:
		totalHours := totalMin / 60
		return fmt.Sprintf("%dd %dh", totalHours/24, totalHours%24)
	}
}

// FormatTimestampMs renders a millisecond timestamp for display
func FormatTimestampMs(tsMs int64) string {
	return time.UnixMilli(tsMs).UTC().Format("2006-01-02 15:04:05 UTC")
}
