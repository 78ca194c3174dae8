package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vibeline/internal/daemonctl"
	"vibeline/internal/daemonrun"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	var startLogLevel string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the vibeline daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			result, err := daemonctl.EnsureStarted(cmd.Context(), ctx.socketPath(), exe,
				daemonctl.LaunchOptions{ConfigPath: ctx.configPath, LogLevel: startLogLevel},
				10*time.Second,
			)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(out, "Daemon started (pid %d)\n", result.PID)
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(out, "Daemon already running (pid %d)\n", result.PID)
			}
			return nil
		},
	}
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "", "Override the configured log level")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the vibeline daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(cmd.Context(), ctx.socketPath(), ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(out, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(out, "Daemon did not exit in time; killed pid %d\n", result.PID)
				return nil
			}
			fmt.Fprintln(out, "Daemon stopped")
			return nil
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snap, err := daemonctl.BuildStatusSnapshot(cmd.Context(), ctx.socketPath(), cfg)
			if err != nil {
				return err
			}
			if statusJSON {
				return writeJSON(cmd, snap)
			}

			out := newStatusWriter(cmd.OutOrStdout())
			out.section("System Status")
			for _, check := range snap.Checks {
				out.check(check, levelWarn)
			}
			out.blank()

			out.section("Queue Status")
			if snap.QueueSource == "" {
				out.text("Queue unavailable (daemon not running)")
				return nil
			}
			if snap.Queue.Total == 0 {
				out.text("Queue is empty")
				return nil
			}
			out.block(renderTable([]string{"Status", "Count"}, buildQueueStatusRows(snap.Queue.Counts), []columnAlignment{alignLeft, alignRight}))
			out.text("Preference match: %d of %d (%d%%)", snap.Queue.Matched, snap.Queue.Total, snap.Queue.MatchPercent)
			if snap.Queue.TopBid != "" && snap.Queue.TopBid != "0" {
				out.text("Top pending bid: %s", snap.Queue.TopBid)
			}
			return nil
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output JSON")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ctx.socketFlag != nil && *ctx.socketFlag != "" {
				cfg.Server.SocketPath = *ctx.socketFlag
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    logLevel,
				Development: development,
			})
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in logs")
	return cmd
}

var statusOrder = []string{"pending", "accepted", "completed", "paid", "rejected"}

func buildQueueStatusRows(counts map[string]int) [][]string {
	rows := make([][]string, 0, len(counts))
	seen := make(map[string]bool, len(statusOrder))
	for _, status := range statusOrder {
		seen[status] = true
		if n := counts[status]; n > 0 {
			rows = append(rows, []string{formatStatus(status), strconv.Itoa(n)})
		}
	}
	var extra []string
	for status, n := range counts {
		if !seen[status] && n > 0 {
			extra = append(extra, status)
		}
	}
	sort.Strings(extra)
	for _, status := range extra {
		rows = append(rows, []string{formatStatus(status), strconv.Itoa(counts[status])})
	}
	return rows
}
