package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trivia-tracker/internal/httpapi"
	"trivia-tracker/internal/stats"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statistics and history over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = rt.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, rt, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServer(ctx context.Context, rt *runtime, addr string) error {
	history, err := openHistory(ctx, rt.cfg.History, rt.log)
	if err != nil {
		return err
	}
	defer logClose(rt.log, history)

	api := httpapi.NewAPI(stats.NewEngine(history), rt.log.Named("http"), rt.cfg.Stats.RecentLimit)
	server := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewRouter(api),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("starting trivia api", zap.String("addr", addr), zap.String("backend", rt.cfg.History.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
		rt.log.Info("shutting down trivia api")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
