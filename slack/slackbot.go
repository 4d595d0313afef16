package protectslack

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
	logger       *slog.Logger
}

func NewSlackBot(appToken, botToken string, handler *Handler, logger *slog.Logger) *SlackBot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionLog(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: handler,
		logger:       logger,
	}
}

// Start dispatches slash commands until ctx is cancelled or the socket
// connection fails.
func (sb *SlackBot) Start(ctx context.Context) error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				sb.logger.Info("connecting to slack")
			case socketmode.EventTypeConnected:
				sb.logger.Info("connected to slack")
			case socketmode.EventTypeConnectionError:
				sb.logger.Warn("slack connection error")
			case socketmode.EventTypeSlashCommand:
				if err := sb.eventHandler.Handle(ctx, &evt, sb.socketClient); err != nil {
					sb.logger.Error("slash command failed", "error", err)
				}
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
