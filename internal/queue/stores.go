package queue

import (
	"context"
	"log/slog"

	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/request"
)

// RequestStore persists the request collection.
type RequestStore struct {
	blob blob[[]request.Request]
}

// NewRequestStore wraps store under RequestsKey.
func NewRequestStore(store kv.Store, logger *slog.Logger) *RequestStore {
	return &RequestStore{blob: blob[[]request.Request]{
		store:  store,
		key:    RequestsKey,
		empty:  func() []request.Request { return []request.Request{} },
		logger: logging.NewComponentLogger(logger, "request-store"),
	}}
}

// Load returns every stored request. A malformed blob yields an empty slice.
func (s *RequestStore) Load(ctx context.Context) ([]request.Request, error) {
	return s.blob.load(ctx)
}

// Save replaces the stored collection.
func (s *RequestStore) Save(ctx context.Context, requests []request.Request) error {
	if requests == nil {
		requests = []request.Request{}
	}
	s.blob.mu.Lock()
	defer s.blob.mu.Unlock()
	return s.blob.save(ctx, requests)
}

// Update runs fn as an atomic read-modify-write. fn reports whether it
// changed anything; unchanged results are not written.
func (s *RequestStore) Update(ctx context.Context, fn func([]request.Request) ([]request.Request, bool, error)) ([]request.Request, bool, error) {
	return s.blob.update(ctx, fn)
}

// PreferenceStore persists the DJ preference set.
type PreferenceStore struct {
	blob blob[request.Preferences]
}

// NewPreferenceStore wraps store under PreferencesKey.
func NewPreferenceStore(store kv.Store, logger *slog.Logger) *PreferenceStore {
	return &PreferenceStore{blob: blob[request.Preferences]{
		store:  store,
		key:    PreferencesKey,
		empty:  func() request.Preferences { return request.Preferences{} },
		logger: logging.NewComponentLogger(logger, "preference-store"),
	}}
}

// Load returns the stored preferences. A malformed blob yields empty preferences.
func (s *PreferenceStore) Load(ctx context.Context) (request.Preferences, error) {
	return s.blob.load(ctx)
}

// Save replaces the stored preferences.
func (s *PreferenceStore) Save(ctx context.Context, prefs request.Preferences) error {
	s.blob.mu.Lock()
	defer s.blob.mu.Unlock()
	return s.blob.save(ctx, prefs)
}

// Update runs fn as an atomic read-modify-write.
func (s *PreferenceStore) Update(ctx context.Context, fn func(request.Preferences) (request.Preferences, bool, error)) (request.Preferences, bool, error) {
	return s.blob.update(ctx, fn)
}
