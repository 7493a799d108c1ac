package session

import (
	"context"
	"fmt"
)

// Store defines the local key/value persistence backing the client session.
// Multi-key writes and deletes are atomic: either every key changes or none does.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// SetAll stores every entry of values in one atomic write.
	SetAll(ctx context.Context, values map[string]string) error

	// Delete removes the given keys in one atomic write. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any resources held by the store.
	Close() error
}

// StoreFactory is a function that creates a new Store instance.
// Returns an error if initialization fails.
type StoreFactory func() (Store, error)

// StoreConfig selects and configures the store implementation.
type StoreConfig struct {
	// Driver is either "sqlite" or "memory"
	Driver string `env:"DRIVER" default:"sqlite"`

	SQLite SQLiteStoreConfig `envPrefix:"SQLITE_"`
}

// NewStoreFactory returns the factory for the configured driver.
func NewStoreFactory(cfg StoreConfig) (StoreFactory, error) {
	switch cfg.Driver {
	case "sqlite":
		return SQLiteStoreFactory(cfg.SQLite), nil
	case "memory":
		return func() (Store, error) { return NewMemoryStore(), nil }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
