package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string

	ctx := newCommandContext(&socketFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "vibeline",
		Short:         "Song requests, DJ queue, and shout-outs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the vibeline daemon socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddGroup(
		&cobra.Group{ID: "queue", Title: "Requests and queue:"},
		&cobra.Group{ID: "daemon", Title: "Daemon:"},
		&cobra.Group{ID: "setup", Title: "Setup and diagnostics:"},
	)
	groups := map[string][]*cobra.Command{
		"queue": {
			newSubmitCommand(ctx),
			newQueueCommand(ctx),
			newPrefsCommand(ctx),
			newShoutoutCommand(ctx),
			newWatchCommand(ctx),
		},
		"daemon": append(newDaemonCommands(ctx),
			newServeCommand(ctx),
			newLogsCommand(ctx),
			newTestNotifyCommand(ctx),
		),
		"setup": {
			newCheckCommand(ctx),
			newConfigCommand(ctx),
		},
	}
	for id, cmds := range groups {
		for _, cmd := range cmds {
			cmd.GroupID = id
			rootCmd.AddCommand(cmd)
		}
	}

	return rootCmd
}
