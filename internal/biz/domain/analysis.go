package domain

// MatchResult pairs one message with the WEN variations found in it.
// Matches keep the exact substring and casing from the message body.
type MatchResult struct {
	MessageID          string   `json:"messageId"`
	SenderID           string   `json:"senderFid"`
	SenderDisplayName  string   `json:"senderName"`
	SenderUsername     string   `json:"senderUsername"`
	Text               string   `json:"text"`
	Count              int      `json:"count"`
	Matches            []string `json:"matches"`
	TimestampMs        int64    `json:"timestamp"`
	TimestampFormatted string   `json:"timestampFormatted"`
}

// TimeRange summarizes the spread of timestamps in an analyzed set
type TimeRange struct {
	FirstMessageTime string `json:"firstMessageTime,omitempty"`
	LastMessageTime  string `json:"lastMessageTime,omitempty"`
	TimeSpan         string `json:"timeSpan"`
}

// AnalysisResult aggregates matcher output over one fetched batch.
// TotalMatchCount always equals the sum of Count across
// MatchedMessages, which are sorted newest first.
type AnalysisResult struct {
	TotalMessages     int           `json:"totalMessages"`
	MessagesWithMatch int           `json:"messagesWithMatch"`
	TotalMatchCount   int           `json:"totalMatchCount"`
	TimeSpan          string        `json:"timeSpan"`
	TimeRange         TimeRange     `json:"timeRange"`
	MatchedMessages   []MatchResult `json:"matchedMessages"`
}

// NewTimeRange computes the time range over a message set. Messages
// without a timestamp are ignored; fewer than two timestamps yield a
// zero span.
func NewTimeRange(messages []Message) TimeRange {
	var minTs, maxTs int64
	seen := 0
	for _, m := range messages {
		if m.TimestampMs == 0 {
			continue
		}
		if seen == 0 || m.TimestampMs < minTs {
			minTs = m.TimestampMs
		}
		if seen == 0 || m.TimestampMs > maxTs {
			maxTs = m.TimestampMs
		}
		seen++
	}

	if seen == 0 {
		return TimeRange{TimeSpan: FormatSpanMs(0)}
	}
	return TimeRange{
		FirstMessageTime: FormatTimestampMs(minTs),
		LastMessageTime:  FormatTimestampMs(maxTs),
		TimeSpan:         FormatSpanMs(maxTs - minTs),
	}
}
