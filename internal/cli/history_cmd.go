package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newHistoryCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent quiz summaries as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("limit") {
				limit = rt.cfg.Stats.RecentLimit
			}

			history, err := openHistory(ctx, rt.cfg.History, rt.log)
			if err != nil {
				return err
			}
			defer logClose(rt.log, history)

			summaries, err := history.Recent(ctx, limit)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			for _, summary := range summaries {
				if err := encoder.Encode(summary); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "number of summaries to print")
	return cmd
}
