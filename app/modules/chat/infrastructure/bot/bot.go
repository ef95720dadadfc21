// Package chatbot runs the Telegram long-polling loop.
package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	chathandlers "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/infrastructure/handlers"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// AllowedUpdates are the update kinds the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query"}

// UpdateSource is the polling half of *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot feeds polled updates to the handlers one at a time.
type Bot struct {
	source      UpdateSource
	handlers    chathandlers.Handlers
	logger      *slog.Logger
	pollTimeout int
}

func NewBot(source UpdateSource, handlers chathandlers.Handlers, logger *slog.Logger, pollTimeout int) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		source:      source,
		handlers:    handlers,
		logger:      logger,
		pollTimeout: pollTimeout,
	}
}

// Run polls until ctx is cancelled or the update channel closes.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	cfg.AllowedUpdates = AllowedUpdates

	updates := b.source.GetUpdatesChan(cfg)
	defer b.source.StopReceivingUpdates()

	b.logger.InfoContext(ctx, "Bot is polling for updates", attr.Int("timeout", b.pollTimeout))
	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "Bot polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	ctx = observability.WithCorrelationID(ctx, uuid.NewString())
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "Critical panic recovered while handling update",
				observability.CorrelationAttr(ctx),
				attr.Int("update_id", update.UpdateID),
				attr.Error(fmt.Errorf("panic: %v", r)),
				attr.String("stack", string(debug.Stack())),
			)
		}
	}()
	b.handlers.HandleUpdate(ctx, update)
}
