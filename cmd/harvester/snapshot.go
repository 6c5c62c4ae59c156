package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const marketQuery = "market"

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Collects today's market snapshot into the market store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, slog.Default())
		if err != nil {
			return err
		}
		defer a.Close()

		return a.snapshot(ctx, 1)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

// snapshot merges the market record for today, trying up to passes times.
func (a *app) snapshot(ctx context.Context, passes int) error {
	collector := a.marketCollector()
	st, err := a.openStore(a.cfg.MarketPath(), collector.Schema())
	if err != nil {
		return err
	}

	today := time.Now().In(a.loc)
	report, err := a.driver(collector, st, "market").Run(ctx, today, today, marketQuery, passes)
	if report != nil {
		if rerr := logReport(a.logger, report); err == nil {
			err = rerr
		}
	}
	return err
}
