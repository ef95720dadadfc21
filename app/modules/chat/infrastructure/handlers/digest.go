package chathandlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	rankingqueue "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/queue"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DigestNotifier posts the end-of-day leaderboard into a chat.
type DigestNotifier struct {
	bot    Messenger
	logger *slog.Logger
}

func NewDigestNotifier(bot Messenger, logger *slog.Logger) *DigestNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &DigestNotifier{bot: bot, logger: logger}
}

func (n *DigestNotifier) SendDigest(ctx context.Context, chatID int64, date time.Time, board []rankingdomain.Row) error {
	msg := tgbotapi.NewMessage(chatID, render.Digest(date, board))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "Daily digest sent",
		observability.CorrelationAttr(ctx),
		attr.Int64("chat_id", chatID),
		attr.Int("players", len(board)),
	)
	return nil
}

var _ rankingqueue.Notifier = (*DigestNotifier)(nil)
