package ledgerintegrationtests

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"
	"github.com/Black-And-White-Club/game-manager-bot/integration_tests/testutils"
)

const chatID int64 = 100

func byPlayer(rows []rankingdomain.Row) map[int64]rankingdomain.Row {
	out := make(map[int64]rankingdomain.Row, len(rows))
	for _, r := range rows {
		out[r.PlayerID] = r
	}
	return out
}

func TestRankingsAfterOneGame(t *testing.T) {
	deps := SetupLedger(t)
	a := register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})
	b := register(t, deps, chatID, playerservice.Identity{ExternalID: 2, FirstName: "B"})

	played := day("2024-01-15")
	_, err := deps.Games.RecordGames(deps.Ctx, chatID, []gameservice.Pair{{Winner: a, Loser: b}}, &played)
	require.NoError(t, err)

	rows, err := deps.Rankings.ComputeRankings(deps.Ctx, chatID, &played)
	require.NoError(t, err)
	got := byPlayer(rows)
	require.Len(t, got, 2)
	require.NotNil(t, got[a.ID].Ratio)
	require.NotNil(t, got[b.ID].Ratio)
	assert.Equal(t, 1.0, *got[a.ID].Ratio)
	assert.Equal(t, 0.0, *got[b.ID].Ratio)

	nextDay := day("2024-01-16")
	rows, err = deps.Rankings.ComputeRankings(deps.Ctx, chatID, &nextDay)
	require.NoError(t, err)
	got = byPlayer(rows)
	assert.Nil(t, got[a.ID].Ratio)
	assert.Nil(t, got[b.ID].Ratio)

	allTime, err := deps.Rankings.Leaderboard(deps.Ctx, chatID, nil)
	require.NoError(t, err)
	require.Len(t, allTime, 2)
	assert.Equal(t, a.ID, allTime[0].PlayerID)
}

func TestRecordGamesIsAllOrNothing(t *testing.T) {
	deps := SetupLedger(t)
	a := register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})
	b := register(t, deps, chatID, playerservice.Identity{ExternalID: 2, FirstName: "B"})
	ghost := gameservice.Participant{ID: 9999, ChatID: chatID, Name: "Ghost"}

	played := day("2024-01-15")
	_, err := deps.Games.RecordGames(deps.Ctx, chatID, []gameservice.Pair{
		{Winner: a, Loser: b},
		{Winner: a, Loser: ghost},
	}, &played)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrValidation))

	count, err := deps.GameRepo.CountAll(deps.Ctx, nil, chatID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSamePlayerPairWritesNothing(t *testing.T) {
	deps := SetupLedger(t)
	a := register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})
	b := register(t, deps, chatID, playerservice.Identity{ExternalID: 2, FirstName: "B"})

	played := day("2024-01-15")
	_, err := deps.Games.RecordGames(deps.Ctx, chatID, []gameservice.Pair{
		{Winner: a, Loser: b},
		{Winner: a, Loser: a},
	}, &played)

	var pairing *gameservice.InvalidPairingError
	require.ErrorAs(t, err, &pairing)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	count, err := testEnv.CountRows(deps.Ctx, "games")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteGameKeepsRow(t *testing.T) {
	deps := SetupLedger(t)
	a := register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})
	b := register(t, deps, chatID, playerservice.Identity{ExternalID: 2, FirstName: "B"})

	played := day("2024-01-15")
	games, err := deps.Games.RecordGames(deps.Ctx, chatID, []gameservice.Pair{
		{Winner: a, Loser: b},
		{Winner: b, Loser: a},
	}, &played)
	require.NoError(t, err)
	require.Len(t, games, 2)

	deleted, err := deps.Games.DeleteGame(deps.Ctx, chatID, games[0].ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	listed, err := deps.Games.ListGames(deps.Ctx, chatID, played)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, games[1].ID, listed[0].ID)

	count, err := testEnv.CountRows(deps.Ctx, "games")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows, err := deps.Rankings.ComputeRankings(deps.Ctx, chatID, &played)
	require.NoError(t, err)
	got := byPlayer(rows)
	assert.Equal(t, 0, got[a.ID].Wins)
	assert.Equal(t, 1, got[a.ID].Losses)
	assert.Equal(t, 1, got[b.ID].Wins)

	_, err = deps.Games.DeleteGame(deps.Ctx, chatID, games[0].ID)
	assert.ErrorIs(t, err, gameservice.ErrGameNotFound)

	_, err = deps.Games.DeleteGame(deps.Ctx, chatID+1, games[1].ID)
	assert.ErrorIs(t, err, gameservice.ErrGameNotFound)
}

func TestRankTodayWithoutGames(t *testing.T) {
	deps := SetupLedger(t)
	register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})

	today := day("2024-03-01")
	board, err := deps.Rankings.Leaderboard(deps.Ctx, chatID, &today)
	require.NoError(t, err)
	assert.Empty(t, board)
	assert.Equal(t, render.NoGamesText, render.Rankings(&today, board))
}

func TestResolveMentions(t *testing.T) {
	deps := SetupLedger(t)
	gen := testutils.NewDataGenerator(11)
	alice := gen.Identity()
	alice.Username = "alice"
	bob := gen.Identity()

	a := register(t, deps, chatID, alice)
	b := register(t, deps, chatID, bob)
	register(t, deps, chatID+1, playerservice.Identity{ExternalID: 77, FirstName: "Elsewhere", Username: "carol"})

	players, err := deps.Players.Resolve(deps.Ctx, chatID, []playerservice.Mention{
		{Username: "alice"},
		{ExternalID: bob.ExternalID, Display: bob.FirstName},
	})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, a.ID, players[0].ID)
	assert.Equal(t, b.ID, players[1].ID)

	_, err = deps.Players.Resolve(deps.Ctx, chatID, []playerservice.Mention{{Username: "carol"}})
	var notFound *playerservice.PlayerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "@carol", notFound.Identifier)
}

func TestExportWorkbook(t *testing.T) {
	deps := SetupLedger(t)
	a := register(t, deps, chatID, playerservice.Identity{ExternalID: 1, FirstName: "A"})
	b := register(t, deps, chatID, playerservice.Identity{ExternalID: 2, FirstName: "B"})

	for _, d := range []string{"2024-01-10", "2024-01-12", "2024-02-01"} {
		played := day(d)
		_, err := deps.Games.RecordGames(deps.Ctx, chatID, []gameservice.Pair{{Winner: a, Loser: b}}, &played)
		require.NoError(t, err)
	}

	data, err := deps.Games.ExportGames(deps.Ctx, chatID, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Games")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Game ID", "Date", "Winner", "Loser"}, rows[0])
	assert.Equal(t, "A", rows[1][2])
	assert.Equal(t, "B", rows[1][3])

	totals, err := f.GetRows("Totals")
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, []string{"A", "2", "0", "1"}, totals[1])

	_, err = deps.Games.ExportGames(deps.Ctx, chatID, day("2024-02-01"), day("2024-01-01"))
	assert.ErrorIs(t, err, gameservice.ErrInvalidRange)
}
