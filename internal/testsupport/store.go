package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vibeline/internal/config"
	"vibeline/internal/kv"
	"vibeline/internal/queue"
	"vibeline/internal/request"
)

// MustOpenKV opens the backend selected by cfg and registers cleanup.
func MustOpenKV(t testing.TB, cfg *config.Config) kv.Store {
	t.Helper()

	store, err := kv.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewController returns a controller over a fresh memory store with
// deterministic ids (req-1, req-2, ...) and a clock that advances one second
// per call.
func NewController(t testing.TB, opts ...queue.Option) *queue.Controller {
	t.Helper()

	seq := 0
	now := time.Date(2026, 6, 1, 21, 0, 0, 0, time.UTC)
	base := []queue.Option{
		queue.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("req-%d", seq)
		}),
		queue.WithClock(func() time.Time {
			now = now.Add(time.Second)
			return now
		}),
	}
	return queue.Open(kv.NewMemory(), nil, append(base, opts...)...)
}

// Submit stores a request for song by artist and fails the test on error.
func Submit(t testing.TB, ctrl *queue.Controller, song, artist string) request.Request {
	t.Helper()

	r, err := ctrl.Submit(context.Background(), request.Submission{SongName: song, Artist: artist, UserID: "listener"})
	if err != nil {
		t.Fatalf("Submit(%s): %v", song, err)
	}
	return r
}
