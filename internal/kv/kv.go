package kv

import (
	"context"
	"errors"
	"fmt"

	"vibeline/internal/config"
)

// Store is a minimal get/set key-value store.
type Store interface {
	// Get returns the stored bytes, or nil and no error when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Watcher is implemented by backends that report writes from other processes.
// Watch blocks until ctx ends or the subscription fails, calling fn with the
// key of every foreign write.
type Watcher interface {
	Watch(ctx context.Context, fn func(key string)) error
}

// Pinger is implemented by backends with a cheap liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrUnknownBackend is returned by Open for an unrecognized storage backend.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open connects to the backend selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, errors.New("kv: nil config")
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("ensure directories: %w", err)
		}
		return OpenSQLite(ctx, cfg.SQLitePath())
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendValkey:
		return OpenValkey(ctx, ValkeyOptions{
			Addr:     cfg.Storage.ValkeyAddr,
			Password: cfg.Storage.ValkeyPassword,
			DB:       cfg.Storage.ValkeyDB,
		})
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.Storage.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
}

// Ping probes store when it supports it and reports nil otherwise.
func Ping(ctx context.Context, store Store) error {
	if pinger, ok := store.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}
