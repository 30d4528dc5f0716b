package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trivia-tracker/internal/config"
	"trivia-tracker/internal/logger"
)

// runtime carries what every subcommand needs once flags are parsed.
type runtime struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:           "trivia",
		Short:         "Terminal trivia quiz with persistent score history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&rt.configPath, "config", os.Getenv("TRIVIA_CONFIG"), "path to YAML config")
	cmd.AddCommand(newPlayCmd(rt))
	cmd.AddCommand(newStatsCmd(rt))
	cmd.AddCommand(newHistoryCmd(rt))
	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newServeCmd(rt))
	return cmd
}

func (rt *runtime) load() error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	rt.cfg = cfg
	rt.log = log
	return nil
}
