package kv

import (
	"context"
	"os"
	"testing"
	"time"
)

// exerciseSharedStore runs the common contract against two handles on the
// same backend, the second posing as another process.
func exerciseSharedStore(t *testing.T, a, b interface {
	Store
	Watcher
}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := "vibeline_test_" + Origin[:8]
	if err := a.Set(ctx, key, []byte(`{"genres":[]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, err := b.Get(ctx, key)
	if err != nil || string(value) != `{"genres":[]}` {
		t.Fatalf("Get from second handle: %q, %v", value, err)
	}
	if value, err := a.Get(ctx, key+"_missing"); err != nil || value != nil {
		t.Fatalf("expected missing key, got %q, %v", value, err)
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	keys := make(chan string, 4)
	go func() { _ = a.Watch(watchCtx, func(k string) { keys <- k }) }()

	// Subscriptions are asynchronous; keep writing until one lands.
	deadline := time.After(5 * time.Second)
	for {
		if err := b.Set(ctx, key, []byte(`{"genres":["dub"]}`)); err != nil {
			t.Fatalf("second Set: %v", err)
		}
		select {
		case got := <-keys:
			if got != key {
				t.Fatalf("unexpected key %q", got)
			}
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("watch never reported the foreign write")
		}
	}
}

func envOrSkip(t *testing.T, name string) string {
	t.Helper()
	value := os.Getenv(name)
	if value == "" {
		t.Skipf("%s not set", name)
	}
	return value
}
