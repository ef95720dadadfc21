package playerservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/Black-And-White-Club/game-manager-bot/app/eventbus"
	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "PlayerService"

// PlayerService implements the Service interface.
type PlayerService struct {
	repo      playerdb.Repository
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	publisher message.Publisher
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(
	repo playerdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	publisher message.Publisher,
) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &PlayerService{
		repo:      repo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		publisher: publisher,
	}
}

// Register creates the caller's player in the chat or refreshes its name and handle.
func (s *PlayerService) Register(ctx context.Context, chatID int64, identity Identity) (*RegisterResult, error) {
	registerTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RegisterResult, error], error) {
		return s.registerLogic(ctx, db, chatID, identity)
	}

	result, err := withTelemetry(s, ctx, "Register", strconv.FormatInt(identity.ExternalID, 10), func(ctx context.Context) (results.OperationResult[*RegisterResult, error], error) {
		return runInTx(s, ctx, registerTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	registered := *result.Success
	if registered.Created {
		payload := eventbus.PlayerRegisteredPayload{
			ChatID:     chatID,
			PlayerID:   registered.Player.ID,
			ExternalID: registered.Player.ExternalID,
			FirstName:  registered.Player.FirstName,
		}
		if err := eventbus.Publish(ctx, s.publisher, eventbus.PlayerRegisteredTopic, payload); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish player registration",
				observability.CorrelationAttr(ctx),
				attr.Int64("player_id", registered.Player.ID),
				attr.Error(err),
			)
		}
	}
	return registered, nil
}

func (s *PlayerService) registerLogic(ctx context.Context, db bun.IDB, chatID int64, identity Identity) (results.OperationResult[*RegisterResult, error], error) {
	username := optionalUsername(identity.Username)

	existing, err := s.repo.GetByExternalID(ctx, db, chatID, identity.ExternalID)
	if err != nil && !errors.Is(err, playerdb.ErrNotFound) {
		return results.OperationResult[*RegisterResult, error]{}, fmt.Errorf("failed to check existing player: %w", err)
	}

	if existing != nil {
		existing.FirstName = identity.FirstName
		existing.Username = username
		if err := s.repo.Update(ctx, db, existing); err != nil {
			return results.OperationResult[*RegisterResult, error]{}, fmt.Errorf("failed to update player: %w", err)
		}
		return results.SuccessResult[*RegisterResult, error](&RegisterResult{Player: existing}), nil
	}

	player := &playerdb.Player{
		ExternalID: identity.ExternalID,
		ChatID:     chatID,
		FirstName:  identity.FirstName,
		Username:   username,
	}
	if err := s.repo.Create(ctx, db, player); err != nil {
		if errors.Is(err, playerdb.ErrDuplicate) {
			return results.FailureResult[*RegisterResult, error](ErrAlreadyRegistered), nil
		}
		return results.OperationResult[*RegisterResult, error]{}, fmt.Errorf("failed to create player: %w", err)
	}

	return results.SuccessResult[*RegisterResult, error](&RegisterResult{Player: player, Created: true}), nil
}

// Resolve maps mentions to players of the chat, in order. The first mention
// that matches nobody fails the whole lookup.
func (s *PlayerService) Resolve(ctx context.Context, chatID int64, mentions []Mention) ([]playerdb.Player, error) {
	resolveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]playerdb.Player, error], error) {
		return s.resolveLogic(ctx, db, chatID, mentions)
	}

	result, err := withTelemetry(s, ctx, "Resolve", strconv.FormatInt(chatID, 10), func(ctx context.Context) (results.OperationResult[[]playerdb.Player, error], error) {
		return runInTx(s, ctx, resolveTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func (s *PlayerService) resolveLogic(ctx context.Context, db bun.IDB, chatID int64, mentions []Mention) (results.OperationResult[[]playerdb.Player, error], error) {
	players := make([]playerdb.Player, 0, len(mentions))
	for _, m := range mentions {
		var (
			player     *playerdb.Player
			err        error
			identifier string
		)
		if m.ExternalID != 0 {
			identifier = m.Display
			player, err = s.repo.GetByExternalID(ctx, db, chatID, m.ExternalID)
		} else {
			identifier = "@" + strings.TrimPrefix(m.Username, "@")
			player, err = s.repo.GetByUsername(ctx, db, chatID, m.Username)
		}
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[[]playerdb.Player, error](&PlayerNotFoundError{Identifier: identifier}), nil
			}
			return results.OperationResult[[]playerdb.Player, error]{}, fmt.Errorf("failed to resolve %s: %w", identifier, err)
		}
		players = append(players, *player)
	}
	return results.SuccessResult[[]playerdb.Player, error](players), nil
}

// ListPlayers returns the chat's registered players.
func (s *PlayerService) ListPlayers(ctx context.Context, chatID int64) ([]playerdb.Player, error) {
	result, err := withTelemetry(s, ctx, "ListPlayers", strconv.FormatInt(chatID, 10), func(ctx context.Context) (results.OperationResult[[]playerdb.Player, error], error) {
		players, err := s.repo.ListByChat(ctx, s.idb(), chatID)
		if err != nil {
			return results.OperationResult[[]playerdb.Player, error]{}, err
		}
		return results.SuccessResult[[]playerdb.Player, error](players), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func (s *PlayerService) idb() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func optionalUsername(username string) *string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil
	}
	return &username
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *PlayerService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		observability.CorrelationAttr(ctx),
		attr.String("operation", operationName),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				observability.CorrelationAttr(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			observability.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			observability.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx runs fn in a transaction. A failure result rolls the transaction
// back but is still returned to the caller as a result, not an error.
func runInTx[S any, F any](
	s *PlayerService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			return errRollback
		}
		return txErr
	})
	if errors.Is(err, errRollback) {
		return result, nil
	}

	return result, err
}
