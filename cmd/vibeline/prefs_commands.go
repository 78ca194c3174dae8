package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Manage the DJ's preference tags",
	}

	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show preference tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				prefs, err := b.Preferences(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, prefs)
				}
				out := cmd.OutOrStdout()
				if len(prefs.Tags) == 0 {
					fmt.Fprintln(out, "No preference tags")
					return nil
				}
				rows := [][]string{
					{"Genres", strings.Join(prefs.Genres, ", ")},
					{"Artists", strings.Join(prefs.Artists, ", ")},
					{"Styles", strings.Join(prefs.Styles, ", ")},
				}
				fmt.Fprint(out, renderTable([]string{"List", "Tags"}, rows, nil))
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	addCmd := &cobra.Command{
		Use:   "add <tag>",
		Short: "Add a preference tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				resp, err := b.AddTag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				reportTags(cmd, resp.Changed, "Added", args[0], resp.Tags)
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <tag>",
		Aliases: []string{"rm"},
		Short:   "Remove a preference tag from every list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBackend(cmd, func(b queueBackend) error {
				resp, err := b.RemoveTag(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				reportTags(cmd, resp.Changed, "Removed", args[0], resp.Tags)
				return nil
			})
		},
	}

	prefsCmd.AddCommand(listCmd, addCmd, removeCmd)
	return prefsCmd
}

func reportTags(cmd *cobra.Command, changed bool, verb, tag string, tags []string) {
	out := cmd.OutOrStdout()
	if changed {
		fmt.Fprintf(out, "%s %q\n", verb, strings.TrimSpace(tag))
	} else {
		fmt.Fprintln(out, "No change")
	}
	if len(tags) == 0 {
		fmt.Fprintln(out, "Tags: (none)")
		return
	}
	fmt.Fprintf(out, "Tags: %s\n", strings.Join(tags, ", "))
}
