// Package render turns ledger data into Telegram HTML messages and inline
// keyboards. Everything here is pure; names are HTML-escaped on the way in.
package render

import (
	"fmt"
	"html"
)

// Callback data understood by the dispatcher.
const (
	CallbackMenuRankings  = "menu_rankings"
	CallbackMenuAddMe     = "menu_add_me"
	CallbackMenuHelp      = "menu_help"
	CallbackMenuBack      = "menu_back"
	CallbackRankToday     = "rank_today"
	CallbackRankEnterDate = "rank_enter_date"
	CallbackRankAllTime   = "rank_all_time"
	CallbackRankCancel    = "rank_cancel"
	CallbackDeletePrefix  = "delete_game_"
)

const StartText = "👋 <b>Welcome to the Game Manager Bot!</b>\n\n" +
	"Track your group's daily games, wins, and rankings, all automatically.\n\n" +
	"Type /menu to see the menu.\n" +
	"Type /help to learn how to use the bot."

const HelpText = "<b>📖 How to Use the Game Manager Bot:</b>\n\n" +
	"<b>✅ 1. Register Yourself (one-time):</b>\n" +
	"<code>/add_me</code>\n" +
	"Each player <b>must</b> register before recording a game.\n\n" +
	"<b>🎮 2. Record Games:</b>\n" +
	"<code>/played @winner1 @loser1 @winner2 @loser2 ... [date=yyyy-mm-dd]</code>\n" +
	"Example: <code>/played @alice @bob\n@charlie @dave\ndate=2025-07-13</code>\n" +
	"<i>Date is optional - defaults to today.</i>\n\n" +
	"<b>📜 3. Games History:</b>\n" +
	"<code>/games [date=yyyy-mm-dd]</code>\n\n" +
	"<b>📊 4. Check Rankings:</b>\n" +
	"<code>/rank [yyyy-mm-dd | today]</code>\n" +
	"Use <code>/rank today</code> for today's results.\n" +
	"Use <code>/rank</code> (with no date) for all-time rankings.\n" +
	"Use <code>/chart [yyyy-mm-dd | today]</code> for a picture of the standings.\n\n" +
	"<b>📤 5. Export:</b>\n" +
	"<code>/export [yyyy-mm-dd yyyy-mm-dd]</code>\n" +
	"Defaults to the last 30 days.\n\n" +
	"<b>⚙️ Menu:</b> <code>/menu</code>"

const MenuText = "🎲 <b>Game Manager Menu</b>\n\nChoose an option from the menu below:"

const RankingsMenuText = "🏆 <b>Rankings Options</b>\n\nChoose which rankings you want to view:"

const DatePromptText = "📅 <b>Enter Date</b>\n\nPlease enter a date in the format YYYY-MM-DD (e.g., 2024-01-15):"

const InvalidDateText = "⚠️ <b>Invalid Date Format</b>\n\nPlease enter a date in YYYY-MM-DD format (e.g., 2024-01-15):"

const RegistrationCompleteText = "<b>✅ Registration Complete</b>\n\nYour information has been added/updated successfully!"

const PrivateChatText = "👋 Please add me to a group to use the bot.\nThis bot is designed to work inside group chats!"

const ErrorText = "⚠️ Something went wrong. The developers have been notified."

const SlowDownText = "⏳ Too many requests in this chat. Please slow down and try again in a few seconds."

const (
	PlayerAddedText   = "You have been added as a player! You can now use the /played command to record your games."
	PlayerUpdatedText = "Your information has been updated!"
	AlreadyPlayerText = "You are already in the database."
	InvalidRangeText  = "The start date must not be after the end date."
	RateLimitedText   = "⏳ Slow down a little, please."
	ExportCaptionText = "📤 Games from %s to %s"
	ChartCaptionText  = "📊 %s"
)

// PlayerNotFound asks the mentioned player to register first.
func PlayerNotFound(identifier string) string {
	return fmt.Sprintf("Player %s not found. Ask them to send /add_me first.", html.EscapeString(identifier))
}

// SamePlayer rejects a pair whose winner and loser are one person.
func SamePlayer(name string) string {
	return fmt.Sprintf("Winner and loser cannot be the same person: %s. Try again.", html.EscapeString(name))
}

// GameNotFound is the soft reply for a missing or already deleted game.
func GameNotFound(gameID int64) string {
	return fmt.Sprintf("❌ Game ID %d not found or already deleted.", gameID)
}

// NoGamesOn reports an empty games list.
func NoGamesOn(date string) string {
	return fmt.Sprintf("No games recorded on %s.", date)
}

// DeveloperAlert is forwarded to the operator chat on unexpected errors.
func DeveloperAlert(userID, chatID string, err error) string {
	return fmt.Sprintf("🚨 <b>Error in Game Manager Bot</b>\n<b>User:</b> %s\n<b>Chat:</b> %s\n<b>Error:</b> <code>%s</code>",
		html.EscapeString(userID), html.EscapeString(chatID), html.EscapeString(err.Error()))
}
