package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
)

var medals = []string{"🥇", "🥈", "🥉"}

const (
	NoGamesText        = "⛔ No games played yet in this chat."
	NoGamesOnDateText  = "No games played on this date in this chat."
	NoGamesAllTimeText = "⛔ No games have been played yet in this chat."
	rankingsTrailer    = "\n\n🚀 <b>Let's keep the games rolling!</b>"
)

// RankingLines renders an ordered leaderboard, one line per player.
func RankingLines(board []rankingdomain.Row) string {
	var b strings.Builder
	for i, row := range board {
		medal := "🎯"
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&b, "%s <b>%d. %s</b> — <i>Win Ratio:</i> %.0f%%\n",
			medal, i+1, html.EscapeString(row.Name), *row.Ratio*100)
	}
	return b.String()
}

// Rankings is the /rank reply. A nil date means all time.
func Rankings(date *time.Time, board []rankingdomain.Row) string {
	if len(board) == 0 {
		return NoGamesText
	}
	header := "🏆 <b>All-Time Champions Are Here!</b> ✨\n\n"
	if date != nil {
		header = fmt.Sprintf("🏆 <b>%s Champions Are Here!</b> ✨\n\n", calendar.Format(*date))
	}
	return header + RankingLines(board) + rankingsTrailer
}

// RankingsForDate is the menu view of one day's standings.
func RankingsForDate(date time.Time, board []rankingdomain.Row) string {
	header := fmt.Sprintf("📆 <b>Rankings for %s</b>\n\n", calendar.Format(date))
	if len(board) == 0 {
		return header + NoGamesOnDateText
	}
	return header + RankingLines(board)
}

// RankingsAllTime is the menu view of all-time standings.
func RankingsAllTime(board []rankingdomain.Row) string {
	if len(board) == 0 {
		return NoGamesAllTimeText
	}
	return "📈 <b>All-Time Rankings</b>\n\n" + RankingLines(board)
}

// Digest is the end-of-day leaderboard post.
func Digest(date time.Time, board []rankingdomain.Row) string {
	return fmt.Sprintf("🌙 <b>Daily digest for %s</b>\n\n", calendar.Format(date)) + RankingLines(board) + rankingsTrailer
}
