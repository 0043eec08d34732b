package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type MySQLStore struct {
	db               *sql.DB
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewMySQLStore(db *sql.DB, logger *zap.Logger, maxRetryAttempts int) *MySQLStore {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &MySQLStore{
		db:               db,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS Snapshot (
		snapshotKey VARCHAR(191) NOT NULL PRIMARY KEY,
		document LONGBLOB NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating snapshot table: %w", err)
	}
	return nil
}

func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT document FROM Snapshot WHERE snapshotKey = ?`

	var document []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %q: %w", key, err)
	}

	return document, nil
}

func (s *MySQLStore) Put(ctx context.Context, entries ...Entry) error {
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	var err error
	for attempt := 1; attempt <= s.maxRetryAttempts; attempt++ {
		err = s.put(ctx, entries)
		if err == nil || !isDeadlockError(err) {
			return err
		}

		if attempt < s.maxRetryAttempts {
			wait := backoffs[min(attempt, len(backoffs)-1)]
			s.logger.Warn("deadlock writing snapshot, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", s.maxRetryAttempts),
				zap.Duration("backoff", wait))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("writing snapshot after %d attempts: %w", s.maxRetryAttempts, err)
}

func (s *MySQLStore) put(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	query := `
		INSERT INTO Snapshot (snapshotKey, document)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE document = VALUES(document)`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.Key, e.Value); err != nil {
			return fmt.Errorf("upserting snapshot %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot transaction: %w", err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
