package domain

import "sort"

// MessageKind classifies a fetched message
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindOther MessageKind = "other"
)

// Message represents a single message fetched from the conversation API.
// Immutable once fetched; owned by the batch that fetched it.
type Message struct {
	ID                string
	Kind              MessageKind
	Body              string
	TimestampMs       int64 // epoch milliseconds, 0 when absent
	SenderID          string
	SenderDisplayName string // "Unknown" when absent
	SenderUsername    string // "unknown" when absent
}

// IsText reports whether the message carries analyzable text
func (m *Message) IsText() bool {
	return m.Kind == KindText && m.Body != ""
}

// FetchBatch is the result of one or more API page fetches
type FetchBatch struct {
	Messages   []Message
	NextCursor string // opaque pagination cursor, "" when exhausted
}

// OldestTimestampMs returns the smallest timestamp in the batch,
// or 0 for an empty batch
func (b *FetchBatch) OldestTimestampMs() int64 {
	if len(b.Messages) == 0 {
		return 0
	}
	oldest := b.Messages[0].TimestampMs
	for _, m := range b.Messages[1:] {
		if m.TimestampMs < oldest {
			oldest = m.TimestampMs
		}
	}
	return oldest
}

// SortNewestFirst orders messages descending by timestamp.
// The sort is stable so ties keep their arrival order.
func (b *FetchBatch) SortNewestFirst() {
	sort.SliceStable(b.Messages, func(i, j int) bool {
		return b.Messages[i].TimestampMs > b.Messages[j].TimestampMs
	})
}
