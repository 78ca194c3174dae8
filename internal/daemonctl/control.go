// Package daemonctl launches, stops, and inspects the vibeline daemon process
// on behalf of the CLI.
package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"vibeline/internal/api"
	"vibeline/internal/config"
	"vibeline/internal/ipc"
	"vibeline/internal/kv"
	"vibeline/internal/preflight"
	"vibeline/internal/queue"
)

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// ErrDaemonNotRunning indicates daemon IPC is unavailable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// Launch starts a detached "vibeline serve" process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"serve"}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon unless one already answers on socketPath.
func EnsureStarted(ctx context.Context, socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	state := StartStateAlreadyRunning
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if launchErr := Launch(executablePath, opts); launchErr != nil {
			return StartResult{}, launchErr
		}
		client, err = WaitForClient(socketPath, waitTimeout)
		if err != nil {
			return StartResult{}, err
		}
		state = StartStateStarted
	}
	defer client.Close()

	status, err := client.Status(ctx)
	if err != nil {
		return StartResult{}, err
	}
	return StartResult{State: state, PID: status.PID}, nil
}

// WaitForShutdown waits for the daemon socket to stop accepting connections.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			return nil
		}
		_ = client.Close()
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("daemon did not stop: socket still accepting connections")
}

// PIDPath returns where the daemon records its process id.
func PIDPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.DataDir, "vibelined.pid")
}

// ForceKillProcess sends SIGKILL to the daemon process and removes its pid file.
func ForceKillProcess(pidPath string, fallbackPID int) (int, error) {
	pid := fallbackPID
	data, err := os.ReadFile(pidPath)
	if err == nil {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(string(data))); parseErr == nil && parsed > 0 {
			pid = parsed
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("read daemon pid file %q: %w", pidPath, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("unable to determine daemon pid (pid file: %s)", pidPath)
	}
	if pid == os.Getpid() {
		return 0, fmt.Errorf("refusing to kill current process (pid %d)", pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("locate daemon process %d: %w", pid, err)
	}
	if err := proc.Kill(); err != nil {
		return 0, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	if err := os.Remove(pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove pid file %q: %w", pidPath, err)
	}
	return pid, nil
}

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	StopAcknowledged bool
	ForcedKill       bool
	PID              int
}

// StopAndTerminate requests a graceful stop and force-kills the process if
// the socket still answers after gracePeriod.
func StopAndTerminate(ctx context.Context, socketPath string, cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return StopResult{}, ErrDaemonNotRunning
		}
		return StopResult{}, err
	}
	pid := 0
	if status, statusErr := client.Status(ctx); statusErr == nil {
		pid = status.PID
	}
	resp, err := client.Stop(ctx)
	_ = client.Close()
	if err != nil {
		return StopResult{}, err
	}
	result := StopResult{StopAcknowledged: resp.Stopping, PID: pid}

	if WaitForShutdown(socketPath, gracePeriod) == nil {
		return result, nil
	}
	if cfg == nil {
		return result, errors.New("daemon did not stop and no configuration is available to locate its pid file")
	}
	killed, err := ForceKillProcess(PIDPath(cfg), pid)
	if err != nil {
		return result, fmt.Errorf("failed to stop daemon process: %w", err)
	}
	_ = os.Remove(socketPath)
	result.ForcedKill = true
	result.PID = killed
	return result, nil
}

func isDaemonUnavailable(err error) bool {
	return os.IsNotExist(err) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}

// Snapshot is what "vibeline status" renders.
type Snapshot struct {
	// Daemon is nil when no daemon answered on the socket.
	Daemon *ipc.StatusResponse
	Checks []preflight.Result
	Queue  api.QueueStats
	// QueueSource names where Queue came from: "daemon", "storage", or "".
	QueueSource string
}

// BuildStatusSnapshot collects daemon status and, when the daemon is down,
// reads queue statistics straight from the configured storage backend.
func BuildStatusSnapshot(ctx context.Context, socketPath string, cfg *config.Config) (*Snapshot, error) {
	if cfg == nil {
		return nil, errors.New("configuration not available")
	}
	snap := &Snapshot{}

	if client, err := ipc.Dial(socketPath); err == nil {
		defer client.Close()
		if status, statusErr := client.Status(ctx); statusErr == nil {
			snap.Daemon = status
			snap.Queue = status.Queue
			snap.QueueSource = "daemon"
		}
	}

	if snap.Daemon == nil && cfg.Storage.Backend != config.BackendMemory {
		queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if stats, err := offlineStats(queryCtx, cfg); err == nil {
			snap.Queue = stats
			snap.QueueSource = "storage"
		}
	}

	snap.Checks = BuildSystemChecks(cfg, snap.Daemon)
	return snap, nil
}

func offlineStats(ctx context.Context, cfg *config.Config) (api.QueueStats, error) {
	store, err := kv.Open(ctx, cfg)
	if err != nil {
		return api.QueueStats{}, err
	}
	defer store.Close()
	stats, err := queue.Open(store, nil).Stats(ctx)
	if err != nil {
		return api.QueueStats{}, err
	}
	return api.FromStats(stats), nil
}

// BuildSystemChecks resolves status lines that combine runtime state and
// config checks without contacting external services.
func BuildSystemChecks(cfg *config.Config, daemon *ipc.StatusResponse) []preflight.Result {
	checks := make([]preflight.Result, 0, 6)
	if daemon != nil {
		detail := fmt.Sprintf("Running (pid %d)", daemon.PID)
		if daemon.APIBind != "" {
			detail += ", API on " + daemon.APIBind
		}
		checks = append(checks, preflight.Result{Name: "Daemon", Passed: true, Detail: detail})
	} else {
		checks = append(checks, preflight.Result{Name: "Daemon", Detail: "Not running"})
	}
	checks = append(checks,
		preflight.Result{Name: "Storage", Passed: true, Detail: storageDetail(cfg)},
		preflight.CheckShoutoutsFromConfig(cfg),
		preflight.CheckNotificationsFromConfig(cfg),
		preflight.CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	)
	if cfg.Server.APIToken == "" {
		checks = append(checks, preflight.Result{Name: "DJ routes", Detail: "Unprotected (no server.api_token)"})
	} else {
		checks = append(checks, preflight.Result{Name: "DJ routes", Passed: true, Detail: "Bearer token required"})
	}
	return checks
}

func storageDetail(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return "sqlite " + cfg.SQLitePath()
	case config.BackendValkey:
		return "valkey " + cfg.Storage.ValkeyAddr
	case config.BackendPostgres:
		return "postgres"
	default:
		return cfg.Storage.Backend
	}
}
