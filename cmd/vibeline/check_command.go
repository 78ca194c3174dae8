package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibeline/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run readiness checks against storage, directories, and the LLM",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := newStatusWriter(cmd.OutOrStdout())
			out.section("Preflight")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				out.check(result, levelError)
			}
			out.check(preflight.CheckShoutoutsFromConfig(cfg), levelWarn)
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}
}
