package server

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"synapse-cli/internal/model"

	_ "modernc.org/sqlite"
)

// LogStore persists sync-log entries in a local SQLite database. The server
// appends an entry per workspace pull (success or error) and serves the
// most recent entries on /logs.
type LogStore struct {
	db *sql.DB
}

func OpenLogStore(ctx context.Context, dir string) (*LogStore, error) {
	path := filepath.Join(dir, "server", "synclogs.sqlite")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is
	// locked" flakiness when the report job and server share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS sync_logs (
		id TEXT PRIMARY KEY,
		at_unixms INTEGER NOT NULL,
		service TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT NOT NULL,
		status TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_sync_logs_at ON sync_logs(at_unixms DESC);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LogStore{db: db}, nil
}

func (ls *LogStore) Close() error { return ls.db.Close() }

// Append records one sync outcome.
func (ls *LogStore) Append(ctx context.Context, at time.Time, service, action, details, status string) error {
	_, err := ls.db.ExecContext(ctx,
		`INSERT INTO sync_logs (id, at_unixms, service, action, details, status) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), at.UnixMilli(), service, action, details, status)
	return err
}

// Recent returns up to limit entries, newest first.
func (ls *LogStore) Recent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := ls.db.QueryContext(ctx,
		`SELECT id, at_unixms, service, action, details, status FROM sync_logs ORDER BY at_unixms DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LogEntry{}
	for rows.Next() {
		var e model.LogEntry
		var atMS int64
		if err := rows.Scan(&e.ID, &atMS, &e.Service, &e.Action, &e.Details, &e.Status); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(atMS).UTC().Format(time.RFC3339)
		e.Message = e.Details
		out = append(out, e)
	}
	return out, rows.Err()
}
