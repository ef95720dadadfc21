package gameservice

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/xuri/excelize/v2"
)

const (
	gamesSheet  = "Games"
	totalsSheet = "Totals"
)

// ExportGames renders the active games between from and to as an XLSX
// workbook with a per-game sheet and a per-player totals sheet.
func (s *GameService) ExportGames(ctx context.Context, chatID int64, from, to time.Time) ([]byte, error) {
	from, to = calendar.Date(from, time.UTC), calendar.Date(to, time.UTC)

	result, err := withTelemetry(s, ctx, "ExportGames", strconv.FormatInt(chatID, 10), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		if from.After(to) {
			return results.FailureResult[[]byte, error](ErrInvalidRange), nil
		}
		games, err := s.repo.ListActiveBetween(ctx, s.idb(), chatID, from, to)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		data, err := buildWorkbook(games)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

type playerTotals struct {
	name   string
	wins   int
	losses int
}

func buildWorkbook(games []gamedb.Game) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), gamesSheet); err != nil {
		return nil, fmt.Errorf("failed to name games sheet: %w", err)
	}
	if err := setRow(f, gamesSheet, 1, []any{"Game ID", "Date", "Winner", "Loser"}); err != nil {
		return nil, err
	}

	totals := map[int64]*playerTotals{}
	tally := func(id int64, name string) *playerTotals {
		t, ok := totals[id]
		if !ok {
			t = &playerTotals{name: name}
			totals[id] = t
		}
		return t
	}

	for i, g := range games {
		row := []any{g.ID, calendar.Format(g.Date), g.WinnerName(), g.LoserName()}
		if err := setRow(f, gamesSheet, i+2, row); err != nil {
			return nil, err
		}
		tally(g.WinnerID, g.WinnerName()).wins++
		tally(g.LoserID, g.LoserName()).losses++
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return nil, fmt.Errorf("failed to create totals sheet: %w", err)
	}
	if err := setRow(f, totalsSheet, 1, []any{"Player", "Wins", "Losses", "Win Ratio"}); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i, id := range ids {
		t := totals[id]
		ratio := float64(t.wins) / float64(t.wins+t.losses)
		if err := setRow(f, totalsSheet, i+2, []any{t.name, t.wins, t.losses, ratio}); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
