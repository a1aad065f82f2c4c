package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run consumes updates via long polling and dispatches each one on its
// own goroutine until ctx is cancelled. Submissions from different users
// run independently; the transformation work inside is bounded by the
// worker pool, so the loop itself never blocks on encoding or inference.
func Run(ctx context.Context, api *tgbotapi.BotAPI, handlers *Handlers, logger *slog.Logger) {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := api.GetUpdatesChan(updateCfg)

	logger.Info("bot polling started",
		slog.String("username", api.Self.UserName),
	)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			logger.Info("bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("update channel closed")
				return
			}
			go handlers.HandleUpdate(ctx, update)
		}
	}
}
