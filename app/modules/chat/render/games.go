package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// MaxMessageLength is Telegram's limit for a message text.
	MaxMessageLength = 4096
	MaxGamesPerPage  = 30
	ButtonsPerRow    = 3
)

// Page is one message of a games list.
type Page struct {
	Text   string
	Markup *tgbotapi.InlineKeyboardMarkup
}

// GameLine renders one numbered game.
func GameLine(n int, g gamedb.Game) string {
	return fmt.Sprintf("%d. Game ID %d: <b>%s</b> won <b>%s</b>",
		n, g.ID, html.EscapeString(g.WinnerName()), html.EscapeString(g.LoserName()))
}

// DeleteCallback is the callback data of a game's delete button.
func DeleteCallback(gameID int64) string {
	return CallbackDeletePrefix + strconv.FormatInt(gameID, 10)
}

// ParseDeleteCallback extracts the game id from delete button data.
func ParseDeleteCallback(data string) (int64, bool) {
	raw, ok := strings.CutPrefix(data, CallbackDeletePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GamesList renders games as one or more pages, each numbered from 1 with a
// delete button per game. A page ends at MaxGamesPerPage games or before the
// text would pass MaxMessageLength.
func GamesList(date string, games []gamedb.Game) []Page {
	header := fmt.Sprintf("Games Played on %s:\n", date)

	var pages []Page
	var b strings.Builder
	var buttons []tgbotapi.InlineKeyboardButton
	n := 0

	flush := func() {
		if n == 0 {
			return
		}
		markup := deleteKeyboard(buttons)
		pages = append(pages, Page{Text: strings.TrimRight(b.String(), "\n"), Markup: &markup})
		b.Reset()
		buttons = nil
		n = 0
	}

	for _, g := range games {
		line := GameLine(n+1, g) + "\n"
		if n > 0 && (n == MaxGamesPerPage || utf8.RuneCountInString(b.String())+utf8.RuneCountInString(line) > MaxMessageLength) {
			flush()
			line = GameLine(1, g) + "\n"
		}
		if n == 0 {
			b.WriteString(header)
			b.WriteString("\n")
		}
		b.WriteString(line)
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", g.ID), DeleteCallback(g.ID)))
		n++
	}
	flush()
	return pages
}

func deleteKeyboard(buttons []tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(buttons)+ButtonsPerRow-1)/ButtonsPerRow)
	for start := 0; start < len(buttons); start += ButtonsPerRow {
		end := min(start+ButtonsPerRow, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[start:end]...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
