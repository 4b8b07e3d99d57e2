package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/wenlabs/wentracker/internal/biz/domain"
)

// recentPreviewLimit caps how many matched messages the live view shows
const recentPreviewLimit = 3

// ConsoleReporter renders monitor updates as plain text
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report renders one tick's status display
func (r *ConsoleReporter) Report(u *Update) {
	a := u.Analysis

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
	fmt.Fprintln(r.out, "      WEN MONITOR - LIVE TRACKING")
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
	fmt.Fprintf(r.out, "WEN COUNT: %d (%s)\n\n", a.TotalMatchCount, u.Change)

	fmt.Fprintln(r.out, "SUMMARY:")
	fmt.Fprintf(r.out, "   Messages analyzed: %d\n", a.TotalMessages)
	fmt.Fprintf(r.out, "   Messages with WEN: %d\n", a.MessagesWithMatch)
	fmt.Fprintf(r.out, "   Message timespan:  %s\n\n", a.TimeSpan)

	fmt.Fprintln(r.out, "MONITOR STATUS:")
	fmt.Fprintf(r.out, "   Update interval: %s\n", u.Interval)
	fmt.Fprintf(r.out, "   Updates so far:  %d\n", u.Tick)
	fmt.Fprintf(r.out, "   Running time:    %s\n", u.Uptime.Truncate(1e9))
	fmt.Fprintf(r.out, "   Last update:     %s\n", u.At.UTC().Format("15:04:05 UTC"))

	if len(a.MatchedMessages) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "RECENT WEN MESSAGES:")
		for i, msg := range a.MatchedMessages {
			if i == recentPreviewLimit {
				break
			}
			fmt.Fprintf(r.out, "   %d. @%s: %s\n", i+1, msg.SenderUsername, strings.Join(msg.Matches, ", "))
			fmt.Fprintf(r.out, "      %q\n", truncate(msg.Text, 50))
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Press Ctrl+C to stop monitoring")
}

// FormatAnalysis renders a one-shot analysis the way the count command
// prints it
func FormatAnalysis(a *domain.AnalysisResult, verbose bool) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString("WEN COUNTER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&sb, "Total messages analyzed: %d\n", a.TotalMessages)
	fmt.Fprintf(&sb, "Messages containing WEN: %d\n", a.MessagesWithMatch)
	fmt.Fprintf(&sb, "Total WEN count: %d\n", a.TotalMatchCount)

	if a.TimeRange.FirstMessageTime != "" && a.TimeRange.LastMessageTime != "" {
		sb.WriteString("\nTIME RANGE:\n")
		fmt.Fprintf(&sb, "First message: %s\n", a.TimeRange.FirstMessageTime)
		fmt.Fprintf(&sb, "Last message:  %s\n", a.TimeRange.LastMessageTime)
		fmt.Fprintf(&sb, "Time span:     %s\n", a.TimeSpan)
	}
	sb.WriteString("\n")

	if len(a.MatchedMessages) == 0 {
		sb.WriteString("No WEN variations found in any messages.\n")
		return sb.String()
	}

	sb.WriteString("MESSAGES WITH WEN (newest first):\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for i, msg := range a.MatchedMessages {
		fmt.Fprintf(&sb, "%d. @%s (%s)\n", i+1, msg.SenderUsername, msg.SenderDisplayName)
		fmt.Fprintf(&sb, "   Time: %s\n", msg.TimestampFormatted)
		fmt.Fprintf(&sb, "   WEN count: %d\n", msg.Count)
		fmt.Fprintf(&sb, "   Matches: %s\n", strings.Join(msg.Matches, ", "))
		if verbose {
			fmt.Fprintf(&sb, "   Message ID: %s\n", msg.MessageID)
			fmt.Fprintf(&sb, "   Sender FID: %s\n", msg.SenderID)
			fmt.Fprintf(&sb, "   Text: %q\n", msg.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncate shortens s to at most n runes, never splitting a multi-byte
// rune at the cut point
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
