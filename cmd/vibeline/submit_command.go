package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibeline/internal/api"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var req api.SubmitRequest
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "submit <song> <artist>",
		Short: "Request a song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.SongName = args[0]
			req.Artist = args[1]
			return ctx.withBackend(cmd, func(b queueBackend) error {
				item, err := b.Submit(cmd.Context(), req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, item)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Submitted %s: %s by %s\n", item.ID, item.SongName, item.Artist)
				if bid := item.BidLabel(); bid != "" {
					fmt.Fprintf(out, "Bid: %s\n", bid)
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Vibe, "vibe", "", "Mood or style hint for the DJ")
	flags.StringVar(&req.Note, "note", "", "Message for the DJ")
	flags.StringVar(&req.UserID, "user-id", "", "Requester id")
	flags.StringVar(&req.UserName, "user-name", "", "Requester display name")
	flags.StringVar(&req.BidAmount, "bid", "", "Bid amount, e.g. 12.5")
	flags.StringVar(&req.BidCurrency, "currency", "", "Bid currency (USDT or USDC)")
	flags.StringVar(&req.BidNetwork, "network", "", "Bid network (Camp Network, BSC, Base)")
	flags.BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
