package daemonrun_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"vibeline/internal/daemon"
	"vibeline/internal/daemonrun"
	"vibeline/internal/ipc"
	"vibeline/internal/testsupport"
)

func TestRunServesUntilStopRequested(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ready := make(chan *daemon.Daemon, 1)
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(context.Background(), cfg, daemonrun.Options{
			LogLevel: "error",
			Ready:    func(d *daemon.Daemon) { ready <- d },
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon never became ready")
	}

	pid, err := os.ReadFile(filepath.Join(cfg.Paths.DataDir, "vibelined.pid"))
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	if !bytes.Equal(bytes.TrimSpace(pid), []byte(strconv.Itoa(os.Getpid()))) {
		t.Fatalf("unexpected pid file contents %q", pid)
	}

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	if _, err := client.Submit(context.Background(), ipc.SubmitRequest{SongName: "a", Artist: "b"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := client.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after stop")
	}
	if _, err := os.Stat(cfg.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed, stat err=%v", err)
	}
	if _, err := os.Stat(cfg.DaemonLogPath()); err != nil {
		t.Fatalf("expected daemon log file: %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{
			LogLevel: "error",
			Ready:    func(*daemon.Daemon) { cancel() },
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunShutsDownWithFollowingWatcher(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{
			LogLevel: "error",
			Ready:    func(*daemon.Daemon) { close(ready) },
		})
	}()
	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon never became ready")
	}

	client, err := ipc.Dial(cfg.SocketPath())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	var calls atomic.Int64
	watcher := make(chan error, 1)
	go func() {
		var since uint64
		for {
			calls.Add(1)
			resp, err := client.Events(context.Background(), ipc.EventsRequest{Since: since, Follow: true, WaitMillis: 30000})
			if err != nil {
				watcher <- err
				return
			}
			since = resp.Next
		}
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return with a watcher connected (%d Events calls)", calls.Load())
	}
	select {
	case err := <-watcher:
		if !errors.Is(err, ipc.ErrDaemonStopped) {
			t.Fatalf("expected ErrDaemonStopped, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher kept polling after shutdown")
	}
	if n := calls.Load(); n > 5 {
		t.Fatalf("watcher spun %d times during shutdown", n)
	}
	if _, err := os.Stat(cfg.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed, stat err=%v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := daemonrun.Run(context.Background(), nil, daemonrun.Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
