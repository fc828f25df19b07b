package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/mathlab/internal/dilemma"
	"github.com/ashureev/mathlab/internal/domain"
	"github.com/ashureev/mathlab/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	statsMu sync.Mutex // serializes read-modify-write of stats rows
	retry   shared.RetryPolicy
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS visitors (
		visitor_id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visitors_last_seen ON visitors(last_seen_at);

	CREATE TABLE IF NOT EXISTS kv (
		visitor_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (visitor_id, key)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetVisitor retrieves a visitor by ID.
func (s *SQLiteStore) GetVisitor(ctx context.Context, visitorID string) (*domain.Visitor, error) {
	query := `
		SELECT visitor_id, display_name, last_seen_at, created_at, updated_at
		FROM visitors WHERE visitor_id = ?`

	var v domain.Visitor
	var lastSeen, createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, visitorID).Scan(
		&v.VisitorID, &v.DisplayName, &lastSeen, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan visitor row: %w", err)
	}

	v.LastSeenAt = time.Unix(lastSeen, 0)
	v.CreatedAt = time.Unix(createdAt, 0)
	v.UpdatedAt = time.Unix(updatedAt, 0)
	return &v, nil
}

// UpsertVisitor creates or updates a visitor record.
func (s *SQLiteStore) UpsertVisitor(ctx context.Context, v *domain.Visitor) error {
	query := `
	INSERT INTO visitors (visitor_id, display_name, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(visitor_id) DO UPDATE SET
		display_name = excluded.display_name,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	return shared.RetryOnConflict(ctx, s.retry, "upsert visitor", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query,
			v.VisitorID, v.DisplayName,
			v.LastSeenAt.Unix(), v.CreatedAt.Unix(), v.UpdatedAt.Unix(),
		)
		return err
	})
}

// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, visitorID string, lastSeen time.Time) error {
	query := `UPDATE visitors SET last_seen_at = ?, updated_at = ? WHERE visitor_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), visitorID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "visitor_id", visitorID)
	}
	return nil
}

// GetValue reads a key-value entry for a visitor.
func (s *SQLiteStore) GetValue(ctx context.Context, visitorID, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE visitor_id = ? AND key = ?`, visitorID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get value %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// PutValue writes a key-value entry for a visitor.
func (s *SQLiteStore) PutValue(ctx context.Context, visitorID, key string, value []byte) error {
	query := `
	INSERT INTO kv (visitor_id, key, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(visitor_id, key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

	return shared.RetryOnConflict(ctx, s.retry, "put value "+key, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query, visitorID, key, string(value), time.Now().Unix())
		return err
	})
}

// ListDilemmaStats returns the visitor's per-policy records, ordered by key.
func (s *SQLiteStore) ListDilemmaStats(ctx context.Context, visitorID string) ([]domain.PolicyStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE visitor_id = ? AND key LIKE 'dilemma:%' ORDER BY key`, visitorID)
	if err != nil {
		return nil, fmt.Errorf("query dilemma stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close dilemma stats rows", "error", closeErr)
		}
	}()

	var out []domain.PolicyStats
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan dilemma stats row: %w", err)
		}
		policy, ok := domain.PolicyFromStatsKey(key)
		if !ok {
			continue
		}
		var ps domain.PolicyStats
		if err := json.Unmarshal([]byte(value), &ps); err != nil {
			slog.Warn("Skipping corrupt stats entry", "visitor_id", visitorID, "key", key, "error", err)
			continue
		}
		ps.Policy = policy
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dilemma stats: %w", err)
	}
	return out, nil
}

// RecordDilemmaGame folds a finished game into the visitor's totals.
func (s *SQLiteStore) RecordDilemmaGame(ctx context.Context, visitorID string, summary dilemma.Summary) (domain.PolicyStats, error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	key := domain.DilemmaStatsKey(summary.Policy)
	stats := domain.PolicyStats{Policy: summary.Policy}

	raw, ok, err := s.GetValue(ctx, visitorID, key)
	if err != nil {
		return domain.PolicyStats{}, err
	}
	if ok {
		if err := json.Unmarshal(raw, &stats); err != nil {
			slog.Warn("Resetting corrupt stats entry", "visitor_id", visitorID, "key", key, "error", err)
			stats = domain.PolicyStats{Policy: summary.Policy}
		}
	}

	stats.Record(summary, time.Now())

	encoded, err := json.Marshal(stats)
	if err != nil {
		return domain.PolicyStats{}, fmt.Errorf("encode stats: %w", err)
	}
	if err := s.PutValue(ctx, visitorID, key, encoded); err != nil {
		return domain.PolicyStats{}, err
	}
	return stats, nil
}
