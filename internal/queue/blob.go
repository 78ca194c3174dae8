package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"vibeline/internal/kv"
	"vibeline/internal/logging"
)

const (
	// RequestsKey holds the JSON array of requests.
	RequestsKey = "vibeline_requests"
	// PreferencesKey holds the DJ preference object.
	PreferencesKey = "vibeline_dj_prefs"
)

// blob is a JSON value stored under one key.
type blob[T any] struct {
	store  kv.Store
	key    string
	empty  func() T
	logger *slog.Logger
	mu     sync.Mutex
}

func (b *blob[T]) load(ctx context.Context) (T, error) {
	raw, err := b.store.Get(ctx, b.key)
	if err != nil {
		return b.empty(), fmt.Errorf("load %s: %w", b.key, err)
	}
	if len(raw) == 0 {
		return b.empty(), nil
	}
	value := b.empty()
	if err := json.Unmarshal(raw, &value); err != nil {
		logging.WarnWithContext(b.logger, "persisted data is malformed; treating it as empty", "persisted_data_malformed",
			logging.String("key", b.key),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the next write replaces the stored value"),
			logging.String(logging.FieldImpact, "existing entries are ignored"),
		)
		return b.empty(), nil
	}
	return value, nil
}

func (b *blob[T]) save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", b.key, err)
	}
	if err := b.store.Set(ctx, b.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", b.key, err)
	}
	return nil
}

// update applies fn under the blob mutex and writes the result when fn
// reports a change.
func (b *blob[T]) update(ctx context.Context, fn func(T) (T, bool, error)) (T, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	current, err := b.load(ctx)
	if err != nil {
		return current, false, err
	}
	next, changed, err := fn(current)
	if err != nil || !changed {
		return current, false, err
	}
	if err := b.save(ctx, next); err != nil {
		return current, false, err
	}
	return next, true, nil
}
