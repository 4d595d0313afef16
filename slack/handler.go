package protectslack

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/protect/hedge"
)

type commandHandler interface {
	Respond(ctx context.Context, text string) (string, error)
}

type Handler struct {
	commands map[string]commandHandler
	logger   *slog.Logger
}

// NewHandler wires every slash command. lookup may be nil, in which case
// /hedge only accepts the configured spot.
func NewHandler(engine *hedge.Engine, cfg hedge.Config, scenarios []float64, lookup hedge.SpotLookup, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		commands: map[string]commandHandler{
			"/help":  NewHelpHandler(),
			"/price": NewPriceHandler(cfg.RiskFreeRate, cfg.DividendYield),
			"/iv":    NewIVHandler(cfg.RiskFreeRate, cfg.DividendYield),
			"/hedge": NewHedgeHandler(engine, cfg, scenarios, lookup),
		},
		logger: logger,
	}
}

func (h *Handler) Handle(ctx context.Context, evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return fmt.Errorf("unexpected slash command payload %T", evt.Data)
	}
	if evt.Request != nil {
		client.Ack(*evt.Request)
	}

	reply := h.Reply(ctx, data.Command, data.Text)
	_, _, err := client.PostMessage(data.ChannelID, slack.MsgOptionText(reply, false))
	return err
}

// Reply runs command with its argument text and returns the message to post.
// Errors are turned into user-facing text.
func (h *Handler) Reply(ctx context.Context, command, text string) string {
	cmd, ok := h.commands[command]
	if !ok {
		return fmt.Sprintf("Unknown command %s. Try /help.", command)
	}

	reply, err := cmd.Respond(ctx, text)
	if err != nil {
		h.logger.Warn("slash command rejected", "command", command, "text", text, "error", err)
		return fmt.Sprintf("%s: %v", command, err)
	}
	h.logger.Debug("slash command handled", "command", command)
	return reply
}
