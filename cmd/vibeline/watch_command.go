package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vibeline/internal/api"
	"vibeline/internal/ipc"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var since uint64
	var once bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow queue and preference changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return ctx.withClient(func(client *ipc.Client) error {
				return followEvents(runCtx, client, cmd, since, once, asJSON)
			})
		},
	}

	cmd.Flags().Uint64Var(&since, "since", 0, "Replay events after this sequence number")
	cmd.Flags().BoolVar(&once, "once", false, "Print available events and exit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per event")
	return cmd
}

func followEvents(ctx context.Context, client *ipc.Client, cmd *cobra.Command, since uint64, once, asJSON bool) error {
	out := cmd.OutOrStdout()
	for {
		resp, err := client.Events(ctx, ipc.EventsRequest{Since: since, Follow: !once})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, ipc.ErrDaemonStopped) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Daemon stopped; watch ended")
				return nil
			}
			return err
		}
		for _, evt := range resp.Events {
			if err := printEvent(out, evt, asJSON, cmd); err != nil {
				return err
			}
		}
		since = resp.Next
		if once {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printEvent(out io.Writer, evt api.Event, asJSON bool, cmd *cobra.Command) error {
	if asJSON {
		return writeCompactJSON(cmd, evt)
	}
	line := fmt.Sprintf("#%d %s %s", evt.Sequence, evt.Timestamp, evt.Kind)
	if evt.RequestID != "" {
		line += " " + evt.RequestID
	}
	if evt.Status != "" {
		line += " -> " + evt.Status
	}
	_, err := fmt.Fprintln(out, line)
	return err
}
