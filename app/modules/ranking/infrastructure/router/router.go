package rankingrouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/game-manager-bot/app/eventbus"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Scheduler is the digest queue as seen by the event handlers.
type Scheduler interface {
	ScheduleDigest(ctx context.Context, chatID int64, date time.Time) error
}

// RankingRouter routes ledger events into the digest scheduler.
type RankingRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	scheduler  Scheduler
}

// NewRankingRouter creates a new RankingRouter.
func NewRankingRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber, scheduler Scheduler) *RankingRouter {
	return &RankingRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		scheduler:  scheduler,
	}
}

// Configure registers the ranking handlers and their middleware.
func (r *RankingRouter) Configure() {
	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Multiplier:      2,
		}.Middleware,
		middleware.Recoverer,
	)

	registerHandler(r, eventbus.GameRecordedTopic, r.HandleGameRecorded)
}

func registerHandler[T any](r *RankingRouter, topic string, handler func(context.Context, *T) error) {
	handlerName := "ranking." + topic
	r.Router.AddConsumerHandler(handlerName, topic, r.subscriber, func(msg *message.Message) error {
		var payload T
		if err := eventbus.Decode(msg, &payload); err != nil {
			r.logger.Error("Dropping undecodable message",
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			return nil
		}
		return handler(eventbus.ContextFor(msg), &payload)
	})
}

// HandleGameRecorded schedules the chat's digest for the recorded date.
func (r *RankingRouter) HandleGameRecorded(ctx context.Context, payload *eventbus.GameRecordedPayload) error {
	if err := r.scheduler.ScheduleDigest(ctx, payload.ChatID, payload.Date); err != nil {
		return fmt.Errorf("failed to schedule digest for chat %d: %w", payload.ChatID, err)
	}
	return nil
}
