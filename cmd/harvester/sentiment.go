package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/findat/internal/sentiment"
)

var sentimentFlags struct {
	start     string
	end       string
	subreddit string
	passes    int
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [--start YYYY-MM-DD] [--end YYYY-MM-DD]",
	Short: "Scores daily discussion threads and merges one sentiment row per date.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, slog.Default())
		if err != nil {
			return err
		}
		defer a.Close()

		sub := a.cfg.Sentiment.Subreddit
		if sentimentFlags.subreddit != "" {
			sub = sentimentFlags.subreddit
		}
		passes := a.cfg.Sentiment.MaxPasses
		if sentimentFlags.passes > 0 {
			passes = sentimentFlags.passes
		}
		start, end, err := a.dateRange(sentimentFlags.start, sentimentFlags.end, a.cfg.Sentiment.StartDate)
		if err != nil {
			return err
		}

		st, err := a.openStore(a.cfg.SentimentPath(), sentiment.Schema)
		if err != nil {
			return err
		}

		report, err := a.driver(a.sentimentFetcher(), st, "reddit_sentiment").
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
	f := sentimentCmd.Flags()
	f.StringVar(&sentimentFlags.start, "start", "", "first date (default: sentiment.start_date, else --end)")
	f.StringVar(&sentimentFlags.end, "end", "", "last date, inclusive (default: yesterday)")
	f.StringVar(&sentimentFlags.subreddit, "subreddit", "", "subreddit to score (default: sentiment.subreddit)")
	f.IntVar(&sentimentFlags.passes, "passes", 0, "max passes over failed dates (default: sentiment.max_passes)")
	rootCmd.AddCommand(sentimentCmd)
}
