package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/findat/internal/reddit"
)

var submissionsFlags struct {
	start     string
	end       string
	subreddit string
	passes    int
}

var submissionsCmd = &cobra.Command{
	Use:   "submissions [--start YYYY-MM-DD] [--end YYYY-MM-DD] [--subreddit name]",
	Short: "Backfills subreddit submissions day by day into the submissions store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, slog.Default())
		if err != nil {
			return err
		}
		defer a.Close()

		sub := a.cfg.Reddit.Subreddit
		if submissionsFlags.subreddit != "" {
			sub = submissionsFlags.subreddit
		}
		passes := a.cfg.Reddit.MaxPasses
		if submissionsFlags.passes > 0 {
			passes = submissionsFlags.passes
		}
		start, end, err := a.dateRange(submissionsFlags.start, submissionsFlags.end, a.cfg.Reddit.StartDate)
		if err != nil {
			return err
		}

		st, err := a.openStore(a.cfg.SubmissionsPath(sub), reddit.SubmissionSchema)
		if err != nil {
			return err
		}

		report, err := a.driver(a.submissionFetcher(), st, "reddit_"+sub+"_submissions").
			Run(ctx, start, end, sub, passes)
		if report != nil {
			if rerr := logReport(a.logger, report); err == nil {
				err = rerr
			}
		}
		return err
	},
}

func init() {
	f := submissionsCmd.Flags()
	f.StringVar(&submissionsFlags.start, "start", "", "first date (default: reddit.start_date, else --end)")
	f.StringVar(&submissionsFlags.end, "end", "", "last date, inclusive (default: yesterday)")
	f.StringVar(&submissionsFlags.subreddit, "subreddit", "", "subreddit to harvest (default: reddit.subreddit)")
	f.IntVar(&submissionsFlags.passes, "passes", 0, "max passes over failed dates (default: reddit.max_passes)")
	rootCmd.AddCommand(submissionsCmd)
}
