package gameservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/Black-And-White-Club/game-manager-bot/app/eventbus"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "GameService"

// GameService implements the Service interface.
type GameService struct {
	repo      gamedb.Repository
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	publisher message.Publisher
	location  *time.Location
	now       func() time.Time
}

// NewGameService creates a new GameService. loc is the reference time zone
// used for the default game date.
func NewGameService(
	repo gamedb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher message.Publisher,
	loc *time.Location,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GameService{
		repo:      repo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		publisher: publisher,
		location:  loc,
		now:       time.Now,
	}
}

// RecordGames stores every pair as a game. Validation runs over the whole
// batch before the first insert; an insert failure rolls back the rest.
func (s *GameService) RecordGames(ctx context.Context, chatID int64, pairs []Pair, date *time.Time) ([]gamedb.Game, error) {
	gameDate := calendar.Date(s.now(), s.location)
	if date != nil {
		gameDate = calendar.Date(*date, time.UTC)
	}

	recordTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]gamedb.Game, error], error) {
		return s.recordGamesLogic(ctx, db, chatID, pairs, gameDate)
	}

	result, err := withTelemetry(s, ctx, "RecordGames", strconv.FormatInt(chatID, 10), func(ctx context.Context) (results.OperationResult[[]gamedb.Game, error], error) {
		if failure := validatePairs(chatID, pairs); failure != nil {
			return results.FailureResult[[]gamedb.Game, error](failure), nil
		}
		return runInTx(s, ctx, recordTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	games := *result.Success
	ids := make([]int64, len(games))
	for i := range games {
		ids[i] = games[i].ID
	}
	payload := eventbus.GameRecordedPayload{ChatID: chatID, GameIDs: ids, Date: gameDate}
	if err := eventbus.Publish(ctx, s.publisher, eventbus.GameRecordedTopic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish recorded games",
			observability.CorrelationAttr(ctx),
			attr.Int64("chat_id", chatID),
			attr.Error(err),
		)
	}
	return games, nil
}

func validatePairs(chatID int64, pairs []Pair) error {
	if len(pairs) == 0 {
		return ErrNoPairs
	}
	for _, p := range pairs {
		if p.Winner.ID == p.Loser.ID {
			return &InvalidPairingError{Player: p.Winner.Label()}
		}
		for _, who := range []Participant{p.Winner, p.Loser} {
			if who.ChatID != chatID {
				return &ForeignPlayerError{Player: who.Label(), ChatID: chatID}
			}
		}
	}
	return nil
}

func (s *GameService) recordGamesLogic(ctx context.Context, db bun.IDB, chatID int64, pairs []Pair, date time.Time) (results.OperationResult[[]gamedb.Game, error], error) {
	games := make([]gamedb.Game, 0, len(pairs))
	for i, p := range pairs {
		game := gamedb.Game{
			WinnerID: p.Winner.ID,
			LoserID:  p.Loser.ID,
			ChatID:   chatID,
			Date:     date,
		}
		if err := s.repo.Create(ctx, db, &game); err != nil {
			return results.OperationResult[[]gamedb.Game, error]{}, fmt.Errorf("failed to record pair %d: %w", i+1, err)
		}
		game.Winner = &gamedb.PlayerRef{ID: p.Winner.ID, FirstName: p.Winner.Name}
		game.Loser = &gamedb.PlayerRef{ID: p.Loser.ID, FirstName: p.Loser.Name}
		games = append(games, game)
	}
	return results.SuccessResult[[]gamedb.Game, error](games), nil
}

// DeleteGame soft deletes an active game of the chat.
func (s *GameService) DeleteGame(ctx context.Context, chatID, gameID int64) (*gamedb.Game, error) {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*gamedb.Game, error], error) {
		game, err := s.repo.SoftDelete(ctx, db, chatID, gameID, s.now().UTC())
		if err != nil {
			if isNotFound(err) {
				return results.FailureResult[*gamedb.Game, error](ErrGameNotFound), nil
			}
			return results.OperationResult[*gamedb.Game, error]{}, fmt.Errorf("failed to delete game: %w", err)
		}
		return results.SuccessResult[*gamedb.Game, error](game), nil
	}

	result, err := withTelemetry(s, ctx, "DeleteGame", strconv.FormatInt(gameID, 10), func(ctx context.Context) (results.OperationResult[*gamedb.Game, error], error) {
		return runInTx(s, ctx, deleteTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	game := *result.Success
	payload := eventbus.GameDeletedPayload{ChatID: chatID, GameID: game.ID, Date: game.Date}
	if game.DeletedAt != nil {
		payload.DeletedAt = *game.DeletedAt
	}
	if err := eventbus.Publish(ctx, s.publisher, eventbus.GameDeletedTopic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish deleted game",
			observability.CorrelationAttr(ctx),
			attr.Int64("game_id", gameID),
			attr.Error(err),
		)
	}
	return game, nil
}

// ListGames returns the chat's active games on date in id order.
func (s *GameService) ListGames(ctx context.Context, chatID int64, date time.Time) ([]gamedb.Game, error) {
	day := calendar.Date(date, time.UTC)
	result, err := withTelemetry(s, ctx, "ListGames", strconv.FormatInt(chatID, 10), func(ctx context.Context) (results.OperationResult[[]gamedb.Game, error], error) {
		games, err := s.repo.ListActive(ctx, s.idb(), chatID, day)
		if err != nil {
			return results.OperationResult[[]gamedb.Game, error]{}, err
		}
		return results.SuccessResult[[]gamedb.Game, error](games), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func (s *GameService) idb() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
