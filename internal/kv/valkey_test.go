package kv

import (
	"context"
	"testing"
)

func TestValkeyStore(t *testing.T) {
	addr := envOrSkip(t, "VIBELINE_TEST_VALKEY_ADDR")
	ctx := context.Background()

	a, err := OpenValkey(ctx, ValkeyOptions{Addr: addr})
	if err != nil {
		t.Fatalf("OpenValkey: %v", err)
	}
	defer a.Close()
	b, err := OpenValkey(ctx, ValkeyOptions{Addr: addr})
	if err != nil {
		t.Fatalf("OpenValkey second: %v", err)
	}
	defer b.Close()
	b.origin = "peer"

	exerciseSharedStore(t, a, b)
}
