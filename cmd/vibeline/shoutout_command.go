package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShoutoutCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "shoutout <id>",
		Short: "Generate a DJ shout-out for a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				resp, err := b.Shoutout(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
				if resp.Fallback {
					fmt.Fprintln(cmd.ErrOrStderr(), "(fallback line; LLM unavailable)")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
