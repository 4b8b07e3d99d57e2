package repo

import (
	"context"
	"time"
)

// Snapshot is one monitor tick's aggregate result. Only derived
// statistics are stored; fetched message bodies are never persisted.
type Snapshot struct {
	ID                int64
	RunID             string // uuid of the monitor run that produced it
	Tick              int
	TotalMessages     int
	MessagesWithMatch int
	TotalMatchCount   int
	TimeSpan          string
	CreatedAt         time.Time
}

// HistoryRepo stores monitor tick snapshots
type HistoryRepo interface {
	Save(ctx context.Context, snap *Snapshot) error
	Recent(ctx context.Context, limit int) ([]*Snapshot, error)
	Close() error
}
