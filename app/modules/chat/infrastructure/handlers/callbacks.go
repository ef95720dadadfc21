package chathandlers

import (
	"context"
	"errors"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *ChatHandlers) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if _, err := h.bot.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		h.logger.WarnContext(ctx, "Failed to answer callback query",
			observability.CorrelationAttr(ctx),
			attr.String("callback_data", q.Data),
			attr.Error(err),
		)
	}
	msg := q.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}
	if msg.Chat.IsPrivate() {
		return h.reply(msg.Chat.ID, render.PrivateChatText, nil)
	}

	if gameID, ok := render.ParseDeleteCallback(q.Data); ok {
		return h.handleDeleteGame(ctx, msg, gameID)
	}

	switch q.Data {
	case render.CallbackMenuRankings:
		menu := render.RankingsMenu()
		return h.edit(msg, render.RankingsMenuText, &menu)
	case render.CallbackMenuBack:
		menu := render.MainMenu()
		return h.edit(msg, render.MenuText, &menu)
	case render.CallbackMenuHelp:
		back := render.BackToMenu()
		return h.edit(msg, render.HelpText, &back)
	case render.CallbackMenuAddMe:
		if q.From == nil {
			return nil
		}
		if _, err := h.register(ctx, msg.Chat.ID, q.From); err != nil && !errors.Is(err, playerservice.ErrAlreadyRegistered) {
			return err
		}
		back := render.BackToMenu()
		return h.edit(msg, render.RegistrationCompleteText, &back)
	case render.CallbackRankToday:
		today := calendar.Date(h.now(), h.location)
		board, err := h.rankings.Leaderboard(ctx, msg.Chat.ID, &today)
		if err != nil {
			return err
		}
		back := render.BackToRankings()
		return h.edit(msg, render.RankingsForDate(today, board), &back)
	case render.CallbackRankAllTime:
		board, err := h.rankings.Leaderboard(ctx, msg.Chat.ID, nil)
		if err != nil {
			return err
		}
		back := render.BackToRankings()
		return h.edit(msg, render.RankingsAllTime(board), &back)
	case render.CallbackRankEnterDate:
		if err := h.transition(ctx, h.stateKey(msg.Chat.ID, q.From), chatdomain.EventRequestDate); err != nil {
			return err
		}
		cancel := render.CancelKeyboard()
		return h.edit(msg, render.DatePromptText, &cancel)
	case render.CallbackRankCancel:
		if err := h.transition(ctx, h.stateKey(msg.Chat.ID, q.From), chatdomain.EventCancel); err != nil {
			return err
		}
		menu := render.RankingsMenu()
		return h.edit(msg, render.RankingsMenuText, &menu)
	}

	h.logger.DebugContext(ctx, "Ignoring unknown callback",
		observability.CorrelationAttr(ctx),
		attr.String("callback_data", q.Data),
	)
	return nil
}

// handleDeleteGame soft deletes the game and edits the list it was shown in:
// the game is struck through, the rest renumbered, and its button removed.
func (h *ChatHandlers) handleDeleteGame(ctx context.Context, msg *tgbotapi.Message, gameID int64) error {
	if _, err := h.games.DeleteGame(ctx, msg.Chat.ID, gameID); err != nil {
		if errors.Is(err, gameservice.ErrGameNotFound) {
			return h.reply(msg.Chat.ID, render.GameNotFound(gameID), nil)
		}
		return err
	}
	if msg.Text == "" {
		return nil
	}
	text := render.StrikeMessage(msg.Text, gameID)
	return h.edit(msg, text, render.RemoveDeleteButton(msg.ReplyMarkup, gameID))
}
