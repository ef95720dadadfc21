package rankingservice

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	rankingdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RankingService"

// RankingService implements the Service interface. Every operation is a read.
type RankingService struct {
	repo    rankingdb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
	palette ChartPalette
}

// NewRankingService creates a new RankingService.
func NewRankingService(
	repo rankingdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &RankingService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		palette: DefaultPalette,
	}
}

// ComputeRankings returns one row per player of the chat. Only games on date
// count when it is set.
func (s *RankingService) ComputeRankings(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error) {
	var day *time.Time
	if date != nil {
		d := calendar.Date(*date, time.UTC)
		day = &d
	}

	result, err := withTelemetry(s, ctx, "ComputeRankings", scope(chatID, day), func(ctx context.Context) (results.OperationResult[[]rankingdomain.Row, error], error) {
		records, err := s.repo.Tally(ctx, s.idb(), chatID, day)
		if err != nil {
			return results.OperationResult[[]rankingdomain.Row, error]{}, err
		}
		rows := make([]rankingdomain.Row, len(records))
		for i, rec := range records {
			rows[i] = toRow(rec)
		}
		return results.SuccessResult[[]rankingdomain.Row, error](rows), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// Leaderboard is ComputeRankings ordered for display.
func (s *RankingService) Leaderboard(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error) {
	rows, err := s.ComputeRankings(ctx, chatID, date)
	if err != nil {
		return nil, err
	}
	return rankingdomain.Leaderboard(rows), nil
}

// Chart renders the leaderboard as a PNG bar chart.
func (s *RankingService) Chart(ctx context.Context, chatID int64, date *time.Time) ([]byte, error) {
	board, err := s.Leaderboard(ctx, chatID, date)
	if err != nil {
		return nil, err
	}
	title := "All-Time Win Ratio"
	if date != nil {
		title = "Win Ratio on " + calendar.Format(*date)
	}
	return GenerateLeaderboardChart(title, board, s.palette)
}

// ChatsWithGames lists chats that recorded at least one active game on date.
func (s *RankingService) ChatsWithGames(ctx context.Context, date time.Time) ([]int64, error) {
	day := calendar.Date(date, time.UTC)
	result, err := withTelemetry(s, ctx, "ChatsWithGames", calendar.Format(day), func(ctx context.Context) (results.OperationResult[[]int64, error], error) {
		ids, err := s.repo.ChatsWithGames(ctx, s.idb(), day)
		if err != nil {
			return results.OperationResult[[]int64, error]{}, err
		}
		return results.SuccessResult[[]int64, error](ids), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func toRow(rec rankingdb.PlayerRecord) rankingdomain.Row {
	row := rankingdomain.Row{
		PlayerID: rec.PlayerID,
		Name:     rec.FirstName,
		Wins:     rec.Wins,
		Losses:   rec.Losses,
		Ratio:    rankingdomain.ComputeRatio(rec.Wins, rec.Losses),
	}
	if rec.Username != nil {
		row.Username = *rec.Username
	}
	return row
}

func scope(chatID int64, date *time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(chatID, 10))
	if date != nil {
		b.WriteString("@")
		b.WriteString(calendar.Format(*date))
	}
	return b.String()
}

func (s *RankingService) idb() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
