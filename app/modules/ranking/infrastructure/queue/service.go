package rankingqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

const (
	queueName   = "digest"
	serviceName = "river"
)

// Leaderboards is the slice of the ranking service the digest needs.
type Leaderboards interface {
	Leaderboard(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error)
	ChatsWithGames(ctx context.Context, date time.Time) ([]int64, error)
}

// Notifier delivers a finished digest to a chat.
type Notifier interface {
	SendDigest(ctx context.Context, chatID int64, date time.Time, board []rankingdomain.Row) error
}

// QueueService schedules end-of-day leaderboard digests.
type QueueService interface {
	// ScheduleDigest queues the digest of chatID for date. Dates other than
	// today, or a digest hour already past, are skipped.
	ScheduleDigest(ctx context.Context, chatID int64, date time.Time) error
	// ScheduleToday queues digests for every chat that already has games today.
	ScheduleToday(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

type jobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Service handles digest scheduling using River.
type Service struct {
	client   *river.Client[pgx.Tx]
	inserter jobInserter
	pool     *pgxpool.Pool
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	boards   Leaderboards
	location *time.Location
	hour     int
	now      func() time.Time
}

// NewService creates a River-backed digest queue on its own pgx pool.
func NewService(
	ctx context.Context,
	logger *slog.Logger,
	dsn string,
	metrics observability.OperationMetrics,
	boards Leaderboards,
	notifier Notifier,
	loc *time.Location,
	hour int,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_digest_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewDailyDigestWorker(ctxLogger, boards, notifier))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			queueName: {MaxWorkers: 5},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	svc := newService(client, ctxLogger, metrics, boards, loc, hour)
	svc.client = client
	svc.pool = pool

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("Digest queue service initialized")
	return svc, nil
}

func newService(inserter jobInserter, logger *slog.Logger, metrics observability.OperationMetrics, boards Leaderboards, loc *time.Location, hour int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		inserter: inserter,
		logger:   logger,
		metrics:  metrics,
		boards:   boards,
		location: loc,
		hour:     hour,
		now:      time.Now,
	}
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting digest queue service")
	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping digest queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", serviceName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// runAt is the digest hour of date in the reference zone.
func (s *Service) runAt(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), s.hour, 0, 0, 0, s.location)
}

func (s *Service) ScheduleDigest(ctx context.Context, chatID int64, date time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_digest", serviceName)
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "schedule_digest", serviceName, time.Since(start))
	}()

	ctxLogger := s.logger.With(
		observability.CorrelationAttr(ctx),
		attr.Int64("chat_id", chatID),
		attr.String("date", calendar.Format(date)),
	)

	now := s.now()
	if !calendar.Date(date, time.UTC).Equal(calendar.Date(now, s.location)) {
		ctxLogger.Debug("Skipping digest for a date other than today")
		s.metrics.RecordOperationSuccess(ctx, "schedule_digest", serviceName)
		return nil
	}
	at := s.runAt(date)
	if !at.After(now) {
		ctxLogger.Debug("Digest hour already passed, skipping")
		s.metrics.RecordOperationSuccess(ctx, "schedule_digest", serviceName)
		return nil
	}

	res, err := s.inserter.Insert(ctx, DailyDigestJob{ChatID: chatID, Date: calendar.Format(date)}, &river.InsertOpts{
		Queue:       queueName,
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule digest job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_digest", serviceName)
		return fmt.Errorf("failed to schedule digest job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_digest", serviceName)
	if res.UniqueSkippedAsDuplicate {
		ctxLogger.Debug("Digest already scheduled", attr.Int64("job_id", res.Job.ID))
		return nil
	}
	ctxLogger.Info("Digest job scheduled",
		attr.Int64("job_id", res.Job.ID),
		attr.Time("scheduled_at", at),
	)
	return nil
}

func (s *Service) ScheduleToday(ctx context.Context) error {
	today := calendar.Date(s.now(), s.location)
	chatIDs, err := s.boards.ChatsWithGames(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list chats for digest: %w", err)
	}
	for _, chatID := range chatIDs {
		if err := s.ScheduleDigest(ctx, chatID, today); err != nil {
			return err
		}
	}
	return nil
}
