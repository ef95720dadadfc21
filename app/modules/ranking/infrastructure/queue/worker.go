package rankingqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/riverqueue/river"
)

// DailyDigestWorker posts the day's leaderboard to a chat.
type DailyDigestWorker struct {
	river.WorkerDefaults[DailyDigestJob]
	logger   *slog.Logger
	boards   Leaderboards
	notifier Notifier
}

func NewDailyDigestWorker(logger *slog.Logger, boards Leaderboards, notifier Notifier) *DailyDigestWorker {
	return &DailyDigestWorker{logger: logger, boards: boards, notifier: notifier}
}

func (w *DailyDigestWorker) Work(ctx context.Context, job *river.Job[DailyDigestJob]) error {
	logger := w.logger.With(
		attr.Int64("job_id", job.ID),
		attr.Int64("chat_id", job.Args.ChatID),
		attr.String("date", job.Args.Date),
	)

	date, err := calendar.Parse(job.Args.Date)
	if err != nil {
		logger.Error("Discarding digest job with bad date", attr.Error(err))
		return river.JobCancel(err)
	}

	board, err := w.boards.Leaderboard(ctx, job.Args.ChatID, &date)
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if len(board) == 0 {
		logger.Info("No games left for digest, skipping")
		return nil
	}

	if err := w.notifier.SendDigest(ctx, job.Args.ChatID, date, board); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	logger.Info("Digest sent", attr.Int("players", len(board)))
	return nil
}
