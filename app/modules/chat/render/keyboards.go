package render

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

func singleButton(text, data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(text, data)),
	)
}

// MainMenu is the /menu keyboard.
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏆 Rankings", CallbackMenuRankings)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("👤 Add Me", CallbackMenuAddMe)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📖 Help", CallbackMenuHelp)),
	)
}

// RankingsMenu offers today, a custom date, or all time.
func RankingsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📆 Today", CallbackRankToday)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📅 Custom Date", CallbackRankEnterDate)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📈 All Time", CallbackRankAllTime)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back to Menu", CallbackMenuBack)),
	)
}

func CancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return singleButton("❌ Cancel", CallbackRankCancel)
}

func BackToRankings() tgbotapi.InlineKeyboardMarkup {
	return singleButton("⬅️ Back to Rankings", CallbackMenuRankings)
}

func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return singleButton("⬅️ Back to Menu", CallbackMenuBack)
}

// RemoveDeleteButton drops the delete button of gameID and any row left
// empty. It returns nil when no rows remain.
func RemoveDeleteButton(markup *tgbotapi.InlineKeyboardMarkup, gameID int64) *tgbotapi.InlineKeyboardMarkup {
	if markup == nil {
		return nil
	}
	target := DeleteCallback(gameID)
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range markup.InlineKeyboard {
		var kept []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			if btn.CallbackData != nil && *btn.CallbackData == target {
				continue
			}
			kept = append(kept, btn)
		}
		if len(kept) > 0 {
			rows = append(rows, kept)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return &tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
