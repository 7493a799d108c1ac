package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mkrupp/storefront/internal/infra/logging"
)

// SQLiteStoreConfig holds configuration for the SQLite session store.
type SQLiteStoreConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/session.db"`
}

// SQLiteStore implements Store using SQLite as the storage backend.
type SQLiteStore struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStoreFactory creates a factory function that returns a new SQLiteStore.
func SQLiteStoreFactory(cfg SQLiteStoreConfig) StoreFactory {
	return func() (Store, error) {
		return NewSQLiteStore(cfg)
	}
}

// NewSQLiteStore opens the database at the configured path, creating parent
// directories and the schema when needed.
func NewSQLiteStore(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	log := logging.GetLogger("repo.session.sqlite_store").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if cfg.DatabasePath != ":memory:" {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := prepareDB(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

// prepareDB checks the connection and creates the schema. db is closed when
// any step fails.
func prepareDB(db *sql.DB) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(err, db.Close())
		}
	}()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return fmt.Errorf("initialize db: %w", err)
	}

	return nil
}

func initializeDB(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_entries (
			key        TEXT    PRIMARY KEY,
			value      TEXT    NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Get implements Store.Get using SQLite.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_entries WHERE key = ?",
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("query entry: %w", err)
	}

	return value, true, nil
}

// SetAll implements Store.SetAll in a single transaction.
func (s *SQLiteStore) SetAll(ctx context.Context, values map[string]string) (err error) {
	defer func() {
		if err != nil {
			s.log.ErrorContext(ctx, "set entries failed", "error", err)
		} else {
			s.log.DebugContext(ctx, "entries set", "count", len(values))
		}
	}()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()

		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO session_entries (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				key, value, now,
			); err != nil {
				return fmt.Errorf("upsert %q: %w", key, err)
			}
		}

		return nil
	})
}

// Delete implements Store.Delete in a single transaction.
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) (err error) {
	defer func() {
		if err != nil {
			s.log.ErrorContext(ctx, "delete entries failed", "error", err)
		} else {
			s.log.DebugContext(ctx, "entries deleted", "keys", keys)
		}
	}()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, "DELETE FROM session_entries WHERE key = ?", key); err != nil {
				return fmt.Errorf("delete %q: %w", key, err)
			}
		}

		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Close implements Store.Close by closing the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
