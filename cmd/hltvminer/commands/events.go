package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hltvminer/internal/components/chrono"
	"hltvminer/internal/crawler"
	"hltvminer/internal/scrapers/hltv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Mines the event archive until an empty page is reached.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(tel)
		if err != nil {
			return err
		}
		defer st.Close()

		client := hltv.NewClient(cfg.HltvOptions(), tel)
		c := crawler.NewEventCrawler(client, st, chrono.NewStandardTime(), tel, cfg.EventOptions())

		mined, err := c.Run(cmd.Context())
		slog.Info("event crawl stopped", "mined", mined)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("event crawl: %w", err)
		}
		return nil
	},
}
