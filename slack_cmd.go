package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bcdannyboy/protect/hedge"
	protectslack "github.com/bcdannyboy/protect/slack"
)

var slackCmd = &cobra.Command{
	Use:   "slack",
	Short: "Run the Slack bot (/hedge, /price, /iv, /help)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Slack.AppToken == "" || cfg.Slack.BotToken == "" {
			return fmt.Errorf("slack app and bot tokens are required: set PROTECT_SLACK_APP_TOKEN and PROTECT_SLACK_BOT_TOKEN")
		}

		table, err := cfg.BuildVolTable()
		if err != nil {
			return err
		}
		hcfg := cfg.HedgeConfig()
		if hcfg.Parallelism == 0 {
			hcfg.Parallelism = defaultParallelism()
		}
		if err := hcfg.Validate(); err != nil {
			return err
		}

		// Spot lookups are optional; without a token /hedge uses the configured spot.
		var lookup hedge.SpotLookup
		if client, err := newTradierClient(); err == nil {
			lookup = client
		} else {
			logger.Warn("tickers disabled in /hedge", "reason", err)
		}

		engine := hedge.NewEngine(table, logger)
		handler := protectslack.NewHandler(engine, hcfg, cfg.Scenarios(), lookup, logger)
		bot := protectslack.NewSlackBot(cfg.Slack.AppToken, cfg.Slack.BotToken, handler, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting slack bot")
		if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("slack bot: %w", err)
		}
		return nil
	},
}
