package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/findat/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs the market snapshot on a cron schedule and serves /health.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, slog.Default())
		if err != nil {
			return err
		}
		defer a.Close()

		sc := a.cfg.Schedule
		s, err := schedule.New(schedule.Config{
			Spec:       sc.Cron,
			Retries:    sc.Retries,
			RetryDelay: sc.RetryDelay,
			Location:   a.loc,
		}, schedule.JobFunc(func(ctx context.Context) error {
			return a.snapshot(ctx, 1)
		}), a.logger)
		if err != nil {
			return err
		}

		healthServer := &http.Server{
			Addr:              sc.HealthAddr,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("starting health server", "addr", sc.HealthAddr)
			if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("health server error", "error", err)
			}
		}()

		if err := s.Start(ctx); err != nil {
			return err
		}
		a.logger.Info("harvester scheduled", "cron", sc.Cron, "health_addr", sc.HealthAddr)

		<-ctx.Done()
		a.logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop timed out", "error", err)
		}
		healthServer.Shutdown(shutdownCtx)

		a.logger.Info("harvester stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
