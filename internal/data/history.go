package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wenlabs/wentracker/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// historyRepo implements the History repository on sqlite
type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new History repository
func NewHistoryRepo(dbPath string) (repo.HistoryRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			total_messages INTEGER NOT NULL,
			messages_with_match INTEGER NOT NULL,
			total_match_count INTEGER NOT NULL,
			time_span TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &historyRepo{db: db}, nil
}

// Save persists one monitor tick snapshot
func (r *historyRepo) Save(ctx context.Context, snap *repo.Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (run_id, tick, total_messages, messages_with_match, total_match_count, time_span, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.RunID,
		snap.Tick,
		snap.TotalMessages,
		snap.MessagesWithMatch,
		snap.TotalMatchCount,
		snap.TimeSpan,
		snap.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

// Recent returns the newest snapshots, newest first
func (r *historyRepo) Recent(ctx context.Context, limit int) ([]*repo.Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, tick, total_messages, messages_with_match, total_match_count, time_span, created_at
		FROM snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*repo.Snapshot
	for rows.Next() {
		var snap repo.Snapshot
		var createdAt int64
		if err := rows.Scan(&snap.ID, &snap.RunID, &snap.Tick, &snap.TotalMessages,
			&snap.MessagesWithMatch, &snap.TotalMatchCount, &snap.TimeSpan, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt = time.Unix(createdAt, 0)
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// Close closes the underlying database
func (r *historyRepo) Close() error {
	return r.db.Close()
}
