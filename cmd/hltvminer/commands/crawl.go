package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hltvminer/internal/components/chrono"
	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/crawler"
	"hltvminer/internal/scrapers/hltv"

	"github.com/spf13/cobra"
)

var crawlStartPage *int

func init() {
	crawlStartPage = crawlCmd.Flags().Int("start-page", -1, "The results page to start from, overrides crawl.start_page.")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--start-page <page>]",
	Short: "Mines results pages from the start page onwards until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := cfg.CrawlOptions()
		if *crawlStartPage >= 0 {
			opts.StartPage = *crawlStartPage
		}

		telemetry.InstrumentPerfStats(ctx, telemetry.DefaultPerfStatsInterval)

		client := hltv.NewClient(cfg.HltvOptions(), tel)
		c := crawler.New(client, st, chrono.NewStandardTime(), tel, opts)
		slog.Info("crawling", "run", c.RunID(), "start_page", opts.StartPage, "database", cfg.Database.File)

		err = c.Run(ctx)
		slog.Info(
			"crawl stopped",
			"run", c.RunID(),
			"matches", st.CountMatches(context.Background()),
			"maps", st.CountMaps(context.Background()),
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("crawl: %w", err)
		}
		return nil
	},
}
