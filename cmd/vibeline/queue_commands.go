package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and work the DJ queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	for _, tr := range []struct{ use, status, short string }{
		{"accept", "accepted", "Accept a pending request"},
		{"reject", "rejected", "Reject a pending request"},
		{"complete", "completed", "Mark an accepted request as played"},
		{"paid", "paid", "Mark a completed request as paid"},
	} {
		queueCmd.AddCommand(newQueueTransitionCommand(ctx, tr.use, tr.status, tr.short))
	}
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var userID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requests in DJ order, or one listener's history with --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				resp, err := b.List(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Items)
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				opts := tableOptions{footer: buildStatsFooter(resp.Items)}
				if userID != "" {
					opts.title = "Requests from " + userID
				}
				fmt.Fprint(out, renderTableWith(requestColumns, buildRequestRows(resp.Items), requestAligns, opts))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Show one listener's requests, newest first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				item, err := b.Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, item)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderRequestDetail(*item))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newQueueTransitionCommand(ctx *commandContext, use, status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				item, err := b.Transition(cmd.Context(), args[0], status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s by %s is now %s\n", item.ID, item.SongName, item.Artist, item.Status)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to clear the queue without --yes")
			}
			return ctx.withBackend(cmd, func(b queueBackend) error {
				resp, err := b.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d requests\n", resp.Removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm removal of all requests")
	return cmd
}
