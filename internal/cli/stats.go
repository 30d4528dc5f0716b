package cli

import (
	"github.com/spf13/cobra"

	"trivia-tracker/internal/stats"
)

func newStatsCmd(rt *runtime) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics and the most recent quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("recent") {
				recent = rt.cfg.Stats.RecentLimit
			}

			history, err := openHistory(ctx, rt.cfg.History, rt.log)
			if err != nil {
				return err
			}
			defer logClose(rt.log, history)

			engine := stats.NewEngine(history)
			report, err := engine.Summary(ctx)
			if err != nil {
				return err
			}
			latest, err := engine.Recent(ctx, recent)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report, latest)
			return nil
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "r", 5, "number of recent quizzes to list")
	return cmd
}
