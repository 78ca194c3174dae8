package daemon_test

import (
	"context"
	"testing"
	"time"

	"vibeline/internal/api"
	"vibeline/internal/daemon"
	"vibeline/internal/kv"
	"vibeline/internal/notify"
	"vibeline/internal/queue"
	"vibeline/internal/testsupport"
)

func newDaemon(t *testing.T, store kv.Store) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if store == nil {
		store = kv.NewMemory()
	}
	d, err := daemon.New(cfg, store, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newDaemon(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status, err := d.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running || status.Backend != "memory" || status.APIBind == "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Shoutouts {
		t.Fatal("shout-outs should report unavailable without an api key")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Running() || d.APIAddr() != "" {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, kv.NewMemory(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	second, err := daemon.New(cfg, kv.NewMemory(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected lock conflict")
	}
	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second Start after release: %v", err)
	}
}

func TestDaemonRelaysExternalWrites(t *testing.T) {
	mem := kv.NewMemory()
	d := newDaemon(t, mem)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sub := d.Hub().Subscribe(8)
	defer sub.Close()

	// Own writes publish request events only.
	if _, err := d.Service().Submit(ctx, api.SubmitRequest{SongName: "a", Artist: "b"}); err != nil {
		t.Fatal(err)
	}
	expectKind(t, sub, notify.KindRequestSubmitted)

	// The watcher registers asynchronously, so keep writing until it reports.
	peer := mem.Peer()
	deadline := time.After(2 * time.Second)
	for {
		if err := peer.Set(ctx, queue.RequestsKey, []byte("[]")); err != nil {
			t.Fatal(err)
		}
		select {
		case evt := <-sub.C():
			if evt.Kind != notify.KindStoreChanged || evt.Key != queue.RequestsKey {
				t.Fatalf("unexpected event %+v", evt)
			}
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("external write was not relayed")
		}
	}
}

func TestDaemonEventsFollow(t *testing.T) {
	d := newDaemon(t, nil)
	ctx := context.Background()

	resp, err := d.Events(ctx, api.EventsRequest{Follow: true, WaitMillis: 20})
	if err != nil || len(resp.Events) != 0 {
		t.Fatalf("expected empty wait, got %+v %v", resp, err)
	}

	done := make(chan api.EventsResponse, 1)
	go func() {
		resp, _ := d.Events(ctx, api.EventsRequest{Since: resp.Next, Follow: true, WaitMillis: 2000})
		done <- resp
	}()
	time.Sleep(20 * time.Millisecond)
	if _, err := d.Service().AddTag(ctx, api.TagRequest{Tag: "dub"}); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-done:
		if len(got.Events) != 1 || got.Events[0].Kind != string(notify.KindPreferencesUpdated) || got.Next != got.Events[0].Sequence {
			t.Fatalf("unexpected follow result %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("follow did not return")
	}
}

func expectKind(t *testing.T, sub *notify.Subscription, kind notify.Kind) notify.Event {
	t.Helper()
	select {
	case evt := <-sub.C():
		if evt.Kind != kind {
			t.Fatalf("expected %s, got %s", kind, evt.Kind)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", kind)
	}
	return notify.Event{}
}
