package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trivia-tracker/internal/opentdb"
	"trivia-tracker/internal/quiz"
)

type playOptions struct {
	amount     int
	category   string
	difficulty string
}

func newPlayCmd(rt *runtime) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive quiz and record the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := rt.cfg

			if !cmd.Flags().Changed("amount") {
				opts.amount = cfg.Quiz.Amount
			}
			if !cmd.Flags().Changed("category") {
				opts.category = cfg.Quiz.Category
			}
			if !cmd.Flags().Changed("difficulty") {
				opts.difficulty = cfg.Quiz.Difficulty
			}

			req, labels, err := resolvePlayOptions(opts)
			if err != nil {
				return err
			}

			client := opentdb.NewClient(
				&http.Client{Timeout: cfg.OpenTDB.Timeout},
				opentdb.WithBaseURL(cfg.OpenTDB.BaseURL),
				opentdb.WithLogger(rt.log.Named("opentdb")),
			)
			source := quiz.NewSource(client.FetchQuestions, cfg.OpenTDB.Timeout)

			history, err := openHistory(ctx, cfg.History, rt.log)
			if err != nil {
				return err
			}
			defer logClose(rt.log, history)

			game := NewGame(source, history, cmd.InOrStdin(), cmd.OutOrStdout(), rt.log.Named("game"),
				WithRetries(cfg.OpenTDB.Retries))
			_, err = game.Play(ctx, req, labels)
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.amount, "amount", "n", 10, fmt.Sprintf("number of questions (%d-%d)", quiz.MinAmount, quiz.MaxAmount))
	cmd.Flags().StringVarP(&opts.category, "category", "c", opentdb.AnyCategory, "category name (see `trivia categories`)")
	cmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", quiz.AnyDifficultyLabel, "easy, medium, hard or any")
	return cmd
}

// resolvePlayOptions maps display names onto a fetch request and the labels
// recorded in history.
func resolvePlayOptions(opts *playOptions) (quiz.FetchRequest, quiz.Labels, error) {
	if opts.amount < quiz.MinAmount || opts.amount > quiz.MaxAmount {
		return quiz.FetchRequest{}, quiz.Labels{}, fmt.Errorf("--amount %d: %w", opts.amount, quiz.ErrInvalidAmount)
	}

	category, ok := opentdb.LookupCategory(opts.category)
	if !ok {
		return quiz.FetchRequest{}, quiz.Labels{}, fmt.Errorf("unknown category %q", opts.category)
	}

	difficulty, err := quiz.ParseDifficulty(opts.difficulty)
	if err != nil {
		return quiz.FetchRequest{}, quiz.Labels{}, err
	}

	return quiz.FetchRequest{
			Amount:     opts.amount,
			CategoryID: category.ID,
			Difficulty: difficulty,
		}, quiz.Labels{
			Category:   category.Name,
			Difficulty: difficulty.Label(),
		}, nil
}

func logClose(log *zap.Logger, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		log.Warn("close history", zap.Error(err))
	}
}
