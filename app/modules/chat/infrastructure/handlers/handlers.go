package chathandlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
	convstate "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/infrastructure/state"
	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	rankingservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/application"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type messageHandler func(ctx context.Context, msg *tgbotapi.Message) error

// ChatHandlers implements the Handlers interface.
type ChatHandlers struct {
	players         playerservice.Service
	games           gameservice.Service
	rankings        rankingservice.Service
	states          convstate.Store
	bot             Messenger
	limiter         *ChatRateLimiter
	logger          *slog.Logger
	tracer          trace.Tracer
	location        *time.Location
	developerChatID int64
	now             func() time.Time
	sleep           func(ctx context.Context, d time.Duration) error
	maxWait         time.Duration
	commands        map[string]messageHandler
}

// NewChatHandlers creates a new ChatHandlers. developerChatID 0 disables
// error forwarding.
func NewChatHandlers(
	players playerservice.Service,
	games gameservice.Service,
	rankings rankingservice.Service,
	states convstate.Store,
	bot Messenger,
	logger *slog.Logger,
	tracer trace.Tracer,
	loc *time.Location,
	developerChatID int64,
) *ChatHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("chat")
	}
	if loc == nil {
		loc = time.UTC
	}
	h := &ChatHandlers{
		players:         players,
		games:           games,
		rankings:        rankings,
		states:          states,
		bot:             bot,
		limiter:         NewChatRateLimiter(DefaultRateLimit, DefaultBurst),
		logger:          logger,
		tracer:          tracer,
		location:        loc,
		developerChatID: developerChatID,
		now:             time.Now,
		sleep:           sleepContext,
		maxWait:         DefaultMaxWait,
	}
	h.commands = map[string]messageHandler{
		"start":  h.handleStart,
		"help":   h.handleHelp,
		"menu":   h.groupOnly(h.handleMenu),
		"add_me": h.groupOnly(h.handleAddMe),
		"played": h.groupOnly(h.handlePlayed),
		"rank":   h.groupOnly(h.handleRank),
		"games":  h.groupOnly(h.handleGames),
		"chart":  h.groupOnly(h.handleChart),
		"export": h.groupOnly(h.handleExport),
	}
	return h
}

// HandleUpdate routes one update. Errors are answered in the chat and never
// returned, so one bad update cannot stop the poll loop.
func (h *ChatHandlers) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, span := h.tracer.Start(ctx, "ChatHandlers.HandleUpdate")
	defer span.End()

	chat := update.FromChat()
	if chat == nil {
		return
	}
	if !h.throttle(ctx, update, chat.ID) {
		return
	}

	var err error
	switch {
	case update.Message != nil:
		err = h.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = h.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		span.RecordError(err)
		h.reportError(ctx, update, err)
	}
}

// throttle holds the update until its chat has a rate token. An update that
// would wait longer than maxWait is turned away visibly: callbacks are
// answered and commands get a reply. Plain text is ignored.
func (h *ChatHandlers) throttle(ctx context.Context, update tgbotapi.Update, chatID int64) bool {
	delay, ok := h.limiter.Reserve(chatID, h.maxWait)
	if ok {
		if delay > 0 {
			h.logger.DebugContext(ctx, "Delaying update for chat rate limit",
				observability.CorrelationAttr(ctx),
				attr.Int64("chat_id", chatID),
				attr.String("delay", delay.String()),
			)
		}
		if err := h.sleep(ctx, delay); err == nil {
			return true
		}
	}

	h.logger.WarnContext(ctx, "Rejecting update over chat rate limit",
		observability.CorrelationAttr(ctx),
		attr.Int64("chat_id", chatID),
		attr.Int("update_id", update.UpdateID),
	)
	switch {
	case update.CallbackQuery != nil:
		if _, err := h.bot.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, render.SlowDownText)); err != nil {
			h.logger.WarnContext(ctx, "Failed to answer throttled callback", attr.Error(err))
		}
	case update.Message != nil && update.Message.IsCommand():
		if err := h.reply(chatID, render.SlowDownText, nil); err != nil {
			h.logger.WarnContext(ctx, "Failed to send slow down reply", attr.Error(err))
		}
	}
	return false
}

func (h *ChatHandlers) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat == nil {
		return nil
	}
	if !msg.IsCommand() {
		return h.handleDateEntry(ctx, msg)
	}
	handler, ok := h.commands[msg.Command()]
	if !ok {
		return nil
	}
	h.logger.InfoContext(ctx, "Command received",
		observability.CorrelationAttr(ctx),
		attr.String("command", msg.Command()),
		attr.Int64("chat_id", msg.Chat.ID),
	)
	return handler(ctx, msg)
}

func (h *ChatHandlers) groupOnly(next messageHandler) messageHandler {
	return func(ctx context.Context, msg *tgbotapi.Message) error {
		if msg.Chat.IsPrivate() {
			return h.reply(msg.Chat.ID, render.PrivateChatText, nil)
		}
		return next(ctx, msg)
	}
}

// today is the message's calendar date in the reference zone.
func (h *ChatHandlers) today(msg *tgbotapi.Message) time.Time {
	at := h.now()
	if msg != nil && msg.Date != 0 {
		at = msg.Time()
	}
	return calendar.Date(at, h.location)
}

func (h *ChatHandlers) reply(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (h *ChatHandlers) edit(msg *tgbotapi.Message, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	cfg := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	cfg.ParseMode = tgbotapi.ModeHTML
	cfg.ReplyMarkup = markup
	if _, err := h.bot.Request(cfg); err != nil {
		return fmt.Errorf("failed to edit message %d: %w", msg.MessageID, err)
	}
	return nil
}

func (h *ChatHandlers) stateKey(chatID int64, user *tgbotapi.User) convstate.Key {
	key := convstate.Key{ChatID: chatID}
	if user != nil {
		key.UserID = user.ID
	}
	return key
}

func (h *ChatHandlers) transition(ctx context.Context, key convstate.Key, ev chatdomain.Event) error {
	current, err := h.states.Get(ctx, key)
	if err != nil {
		return err
	}
	return h.states.Set(ctx, key, chatdomain.Next(current, ev))
}

// reportError answers an expected failure with its corrective text. Anything
// else gets the generic apology and is forwarded to the developer chat.
func (h *ChatHandlers) reportError(ctx context.Context, update tgbotapi.Update, err error) {
	chat := update.FromChat()

	if text, ok := replyFor(err); ok {
		h.logger.InfoContext(ctx, "Request rejected",
			observability.CorrelationAttr(ctx),
			attr.Int64("chat_id", chat.ID),
			attr.Error(err),
		)
		if sendErr := h.reply(chat.ID, text, nil); sendErr != nil {
			h.logger.WarnContext(ctx, "Failed to send rejection", attr.Error(sendErr))
		}
		return
	}

	h.logger.ErrorContext(ctx, "Unexpected error handling update",
		observability.CorrelationAttr(ctx),
		attr.Int("update_id", update.UpdateID),
		attr.Int64("chat_id", chat.ID),
		attr.Error(err),
	)
	if sendErr := h.reply(chat.ID, render.ErrorText, nil); sendErr != nil {
		h.logger.WarnContext(ctx, "Failed to send error reply", attr.Error(sendErr))
	}

	if h.developerChatID == 0 {
		return
	}
	userID := "N/A"
	if user := update.SentFrom(); user != nil {
		userID = strconv.FormatInt(user.ID, 10)
	}
	alert := render.DeveloperAlert(userID, strconv.FormatInt(chat.ID, 10), err)
	if sendErr := h.reply(h.developerChatID, alert, nil); sendErr != nil {
		h.logger.WarnContext(ctx, "Failed to notify developer", attr.Error(sendErr))
	}
}

var _ Handlers = (*ChatHandlers)(nil)
