package render

import (
	"strings"
	"testing"
	"time"

	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id int64, name string, wins, losses int) rankingdomain.Row {
	return rankingdomain.Row{PlayerID: id, Name: name, Wins: wins, Losses: losses, Ratio: rankingdomain.ComputeRatio(wins, losses)}
}

func TestRankings(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	board := []rankingdomain.Row{
		row(1, "Alice", 3, 0),
		row(2, "<Bob>", 2, 1),
		row(3, "Carol", 1, 1),
		row(4, "Dan", 0, 2),
	}

	want := "🏆 <b>2024-01-15 Champions Are Here!</b> ✨\n\n" +
		"🥇 <b>1. Alice</b> — <i>Win Ratio:</i> 100%\n" +
		"🥈 <b>2. &lt;Bob&gt;</b> — <i>Win Ratio:</i> 67%\n" +
		"🥉 <b>3. Carol</b> — <i>Win Ratio:</i> 50%\n" +
		"🎯 <b>4. Dan</b> — <i>Win Ratio:</i> 0%\n" +
		"\n\n🚀 <b>Let's keep the games rolling!</b>"

	if diff := cmp.Diff(want, Rankings(&date, board)); diff != "" {
		t.Errorf("Rankings() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, strings.HasPrefix(Rankings(nil, board), "🏆 <b>All-Time Champions Are Here!</b> ✨"))
}

func TestRankingsEmpty(t *testing.T) {
	today := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, NoGamesText, Rankings(&today, nil))
	assert.Equal(t, NoGamesAllTimeText, RankingsAllTime(nil))
	assert.Equal(t, "📆 <b>Rankings for 2024-01-15</b>\n\n"+NoGamesOnDateText, RankingsForDate(today, nil))
}

func games(n int) []gamedb.Game {
	faker := gofakeit.New(7)
	out := make([]gamedb.Game, n)
	for i := range out {
		out[i] = gamedb.Game{
			ID:     int64(100 + i),
			Winner: &gamedb.PlayerRef{FirstName: faker.FirstName()},
			Loser:  &gamedb.PlayerRef{FirstName: faker.FirstName()},
		}
	}
	return out
}

func TestGamesList(t *testing.T) {
	pages := GamesList("2024-01-15", []gamedb.Game{
		{ID: 5, Winner: &gamedb.PlayerRef{FirstName: "A"}, Loser: &gamedb.PlayerRef{FirstName: "B"}},
		{ID: 7, Winner: &gamedb.PlayerRef{FirstName: "C"}, Loser: &gamedb.PlayerRef{FirstName: "D&E"}},
	})
	require.Len(t, pages, 1)

	want := "Games Played on 2024-01-15:\n\n" +
		"1. Game ID 5: <b>A</b> won <b>B</b>\n" +
		"2. Game ID 7: <b>C</b> won <b>D&amp;E</b>"
	if diff := cmp.Diff(want, pages[0].Text); diff != "" {
		t.Errorf("GamesList() text mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [][]string{{"delete_game_5", "delete_game_7"}}, callbacks(pages[0].Markup))
}

func TestGamesListPagination(t *testing.T) {
	pages := GamesList("2024-01-15", games(65))
	require.Len(t, pages, 3)

	for i, want := range []int{30, 30, 5} {
		p := pages[i]
		assert.True(t, strings.HasPrefix(p.Text, "Games Played on 2024-01-15:\n\n1. Game ID "))
		assert.Equal(t, want, strings.Count(p.Text, "Game ID "))
		assert.Len(t, p.Markup.InlineKeyboard, (want+ButtonsPerRow-1)/ButtonsPerRow)
		for _, r := range p.Markup.InlineKeyboard {
			assert.LessOrEqual(t, len(r), ButtonsPerRow)
		}
	}
	assert.Contains(t, pages[1].Text, "1. Game ID 130:")
}

func TestGamesListSplitsLongText(t *testing.T) {
	long := strings.Repeat("x", 1500)
	list := []gamedb.Game{
		{ID: 1, Winner: &gamedb.PlayerRef{FirstName: long}, Loser: &gamedb.PlayerRef{FirstName: "b"}},
		{ID: 2, Winner: &gamedb.PlayerRef{FirstName: long}, Loser: &gamedb.PlayerRef{FirstName: "b"}},
		{ID: 3, Winner: &gamedb.PlayerRef{FirstName: long}, Loser: &gamedb.PlayerRef{FirstName: "b"}},
	}
	pages := GamesList("2024-01-15", list)
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.LessOrEqual(t, len([]rune(p.Text)), MaxMessageLength)
	}
}

func TestGamesListEmpty(t *testing.T) {
	assert.Empty(t, GamesList("2024-01-15", nil))
}
