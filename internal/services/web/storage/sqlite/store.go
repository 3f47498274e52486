// Package sqlite provides a SQLite-backed banner dismissal store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/louisbranch/relayweb/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/relayweb/internal/platform/timeouts"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	"github.com/louisbranch/relayweb/internal/services/web/storage/sqlite/migrations"
)

// Store persists dismissal records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ dismissal.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite dismissal store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreOpen)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the dismissal stored under key.
func (s *Store) Get(ctx context.Context, key string) (dismissal.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return dismissal.Record{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return dismissal.Record{}, false, fmt.Errorf("storage is not configured")
	}
	var dismissedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT dismissed_at FROM banner_dismissals WHERE dismissal_key = ?`,
		strings.TrimSpace(key),
	).Scan(&dismissedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return dismissal.Record{}, false, nil
	}
	if err != nil {
		return dismissal.Record{}, false, fmt.Errorf("get dismissal: %w", err)
	}
	return dismissal.Record{Key: strings.TrimSpace(key), DismissedAt: fromMillis(dismissedAt)}, true, nil
}

// Put upserts record; a later dismissal replaces an earlier one.
func (s *Store) Put(ctx context.Context, record dismissal.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	key := strings.TrimSpace(record.Key)
	if key == "" {
		return fmt.Errorf("dismissal key is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO banner_dismissals (dismissal_key, dismissed_at) VALUES (?, ?)
		 ON CONFLICT(dismissal_key) DO UPDATE SET dismissed_at = excluded.dismissed_at`,
		key, toMillis(record.DismissedAt),
	)
	if err != nil {
		return fmt.Errorf("put dismissal: %w", err)
	}
	return nil
}
