// Package sqlite provides SQLite-backed persistence for batch traces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/marlowe-games/cartograph/internal/atlas/storage"
	"github.com/marlowe-games/cartograph/internal/atlas/storage/sqlite/migrations"
	"github.com/marlowe-games/cartograph/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists batch traces in a SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite trace store at the provided path and applies
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendBatchTrace inserts one trace record.
func (s *Store) AppendBatchTrace(ctx context.Context, rec storage.BatchTrace) error {
	exchanges, err := encodeJSON(rec.Exchanges)
	if err != nil {
		return fmt.Errorf("marshal exchanges: %w", err)
	}
	validationErrors, err := encodeJSON(rec.ValidationErrors)
	if err != nil {
		return fmt.Errorf("marshal validation errors: %w", err)
	}
	warnings, err := encodeJSON(rec.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}
	droppedNodes, err := encodeJSON(rec.DroppedNodes)
	if err != nil {
		return fmt.Errorf("marshal dropped nodes: %w", err)
	}
	droppedEdges, err := encodeJSON(rec.DroppedEdges)
	if err != nil {
		return fmt.Errorf("marshal dropped edges: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO batch_traces (
    id, started_at, finished_at, outcome,
    exchanges, validation_errors, warnings, dropped_nodes, dropped_edges
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		toMillis(rec.StartedAt),
		toMillis(rec.FinishedAt),
		rec.Outcome,
		exchanges,
		validationErrors,
		warnings,
		droppedNodes,
		droppedEdges,
	)
	if err != nil {
		return fmt.Errorf("insert batch trace: %w", err)
	}
	return nil
}

// ListBatchTraces returns up to limit traces, newest first. A limit of 0
// returns everything.
func (s *Store) ListBatchTraces(ctx context.Context, limit int) ([]storage.BatchTrace, error) {
	query := `
SELECT id, started_at, finished_at, outcome,
       exchanges, validation_errors, warnings, dropped_nodes, dropped_edges
FROM batch_traces
ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batch traces: %w", err)
	}
	defer rows.Close()

	var traces []storage.BatchTrace
	for rows.Next() {
		var (
			rec              storage.BatchTrace
			startedAt        int64
			finishedAt       int64
			exchanges        string
			validationErrors string
			warnings         string
			droppedNodes     string
			droppedEdges     string
		)
		if err := rows.Scan(
			&rec.ID, &startedAt, &finishedAt, &rec.Outcome,
			&exchanges, &validationErrors, &warnings, &droppedNodes, &droppedEdges,
		); err != nil {
			return nil, fmt.Errorf("scan batch trace: %w", err)
		}
		rec.StartedAt = fromMillis(startedAt)
		rec.FinishedAt = fromMillis(finishedAt)
		if err := decodeJSON(exchanges, &rec.Exchanges); err != nil {
			return nil, fmt.Errorf("unmarshal exchanges: %w", err)
		}
		if err := decodeJSON(validationErrors, &rec.ValidationErrors); err != nil {
			return nil, fmt.Errorf("unmarshal validation errors: %w", err)
		}
		if err := decodeJSON(warnings, &rec.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
		if err := decodeJSON(droppedNodes, &rec.DroppedNodes); err != nil {
			return nil, fmt.Errorf("unmarshal dropped nodes: %w", err)
		}
		if err := decodeJSON(droppedEdges, &rec.DroppedEdges); err != nil {
			return nil, fmt.Errorf("unmarshal dropped edges: %w", err)
		}
		traces = append(traces, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch traces: %w", err)
	}
	return traces, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func encodeJSON(value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeJSON(value string, out any) error {
	value = strings.TrimSpace(value)
	if value == "" || value == "null" {
		return nil
	}
	return json.Unmarshal([]byte(value), out)
}
