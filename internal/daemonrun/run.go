// Package daemonrun wires configuration, logging, storage, the daemon, and
// the IPC socket into the long-running vibelined process.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"vibeline/internal/config"
	"vibeline/internal/daemon"
	"vibeline/internal/ipc"
	"vibeline/internal/kv"
	"vibeline/internal/logging"
	"vibeline/internal/preflight"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Ready, when set, is called once the daemon and IPC socket accept work.
	Ready func(*daemon.Daemon)
}

// Run starts the vibeline daemon and blocks until it receives SIGINT or
// SIGTERM, cmdCtx ends, or a client requests shutdown over IPC.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		FilePath:    cfg.DaemonLogPath(),
		Development: opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.DataDir, "vibelined.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	logPreflight(signalCtx, logger, cfg)

	store, err := kv.Open(signalCtx, cfg)
	if err != nil {
		logging.ErrorWithContext(logger, "open storage backend", "storage_open_failed",
			logging.Error(err),
			logging.String("backend", cfg.Storage.Backend),
			logging.String(logging.FieldErrorHint, "run vibeline check to diagnose the storage backend"),
		)
		return fmt.Errorf("open storage: %w", err)
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger, ipc.WithShutdown(cancel))
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("vibeline daemon ready",
		logging.Event("daemon_ready"),
		logging.String("backend", cfg.Storage.Backend),
		logging.String("api_bind", d.APIAddr()),
		logging.String("socket", cfg.SocketPath()),
	)
	if opts.Ready != nil {
		opts.Ready(d)
	}

	<-signalCtx.Done()
	logger.Info("vibeline daemon shutting down",
		logging.Event("daemon_shutdown"))
	d.Stop()
	return nil
}

func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Debug("preflight passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "daemon will start but the affected feature may not work"),
			logging.String(logging.FieldErrorHint, "run vibeline check for details"),
		)
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
