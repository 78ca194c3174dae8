package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibeline/internal/ipc"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test push notification through the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp *ipc.TestNotificationResponse
			err := ctx.withClient(func(client *ipc.Client) error {
				var callErr error
				resp, callErr = client.TestNotification(cmd.Context())
				return callErr
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeNotifyResult(resp))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func describeNotifyResult(resp *ipc.TestNotificationResponse) string {
	if resp.Message != "" {
		return resp.Message
	}
	if resp.Sent {
		return "Test notification sent"
	}
	return "Notification not sent"
}
