package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/game-manager-bot/app/eventbus"
	chatbot "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/infrastructure/bot"
	chathandlers "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/infrastructure/handlers"
	convstate "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/infrastructure/state"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	rankingservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/application"
	rankingqueue "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/queue"
	rankingdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/repositories"
	rankingrouter "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/router"
	"github.com/Black-And-White-Club/game-manager-bot/app/server"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/dbmigrate"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/Black-And-White-Club/game-manager-bot/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
)

const metricsNamespace = "game_manager"

// App owns every long-lived component of the bot.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	Registry *prometheus.Registry
	EventBus eventbus.EventBus
	Router   *message.Router

	Players  playerservice.Service
	Games    gameservice.Service
	Rankings rankingservice.Service
	Digest   rankingqueue.QueueService

	Bot    *chatbot.Bot
	Server *server.Server

	redis *redis.Client
}

// NewApp wires the application from cfg. Migrations run before any service
// is built.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := a.openDatabase(ctx); err != nil {
		return nil, err
	}

	a.EventBus, err = eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	tracer := otel.Tracer("game-manager-bot")
	opMetrics := observability.NewPrometheusMetrics(a.Registry, metricsNamespace)

	a.Players = playerservice.NewPlayerService(playerdb.NewRepository(a.DB), logger, opMetrics, tracer, a.DB, a.EventBus)
	a.Games = gameservice.NewGameService(gamedb.NewRepository(a.DB), logger, opMetrics, tracer, a.DB, a.EventBus, loc)
	a.Rankings = rankingservice.NewRankingService(rankingdb.NewRepository(a.DB), logger, opMetrics, tracer, a.DB)

	states, err := a.conversationStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create Telegram client: %w", err)
	}
	logger.InfoContext(ctx, "Authorized on Telegram", attr.String("bot", api.Self.UserName))

	if cfg.Digest.Enabled {
		if err := a.setupDigest(ctx, api, opMetrics, loc); err != nil {
			a.Close()
			return nil, err
		}
	}

	handlers := chathandlers.NewChatHandlers(
		a.Players,
		a.Games,
		a.Rankings,
		states,
		api,
		logger,
		tracer,
		loc,
		cfg.Telegram.DeveloperChatID,
	)
	a.Bot = chatbot.NewBot(api, handlers, logger, cfg.Telegram.PollTimeout)
	a.Server = server.New(cfg.HTTP.Addr, a.DB, a.Registry, logger)

	return a, nil
}

func (a *App) openDatabase(ctx context.Context) error {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(a.Config.Postgres.DSN)))
	a.DB = bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := a.DB.PingContext(pingCtx); err != nil {
		a.DB.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbmigrate.Up(ctx, a.DB, a.Logger); err != nil {
		a.DB.Close()
		return err
	}
	return nil
}

func (a *App) conversationStore(ctx context.Context) (convstate.Store, error) {
	ttl := a.Config.App.ConversationTTL
	if a.Config.Redis.Addr == "" {
		a.Logger.InfoContext(ctx, "Using in-memory conversation store")
		return convstate.NewMemoryStore(ttl), nil
	}
	client, err := convstate.Connect(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.Logger.InfoContext(ctx, "Using Redis conversation store", attr.String("addr", a.Config.Redis.Addr))
	return convstate.NewRedisStore(client, ttl), nil
}

// setupDigest builds the River queue and the watermill router that feeds it
// game.recorded events.
func (a *App) setupDigest(ctx context.Context, api chathandlers.Messenger, opMetrics observability.OperationMetrics, loc *time.Location) error {
	if err := dbmigrate.RiverUp(ctx, a.Config.Postgres.DSN, a.Logger); err != nil {
		return err
	}

	notifier := chathandlers.NewDigestNotifier(api, a.Logger)
	digest, err := rankingqueue.NewService(ctx, a.Logger, a.Config.Postgres.DSN, opMetrics, a.Rankings, notifier, loc, a.Config.Digest.Hour)
	if err != nil {
		return err
	}
	a.Digest = digest

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(a.Logger))
	if err != nil {
		return fmt.Errorf("failed to create watermill router: %w", err)
	}
	metrics.NewPrometheusMetricsBuilder(a.Registry, metricsNamespace, "router").AddPrometheusRouterMetrics(router)
	rankingrouter.NewRankingRouter(a.Logger, router, a.EventBus, digest).Configure()
	a.Router = router
	return nil
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	var started int
	done := make(chan result, 4)
	start := func(name string, run func(context.Context) error) {
		started++
		go func() { done <- result{name: name, err: run(ctx)} }()
	}

	if a.Digest != nil {
		if err := a.Digest.Start(ctx); err != nil {
			return err
		}
		if err := a.Digest.ScheduleToday(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Failed to schedule today's digests", attr.Error(err))
		}
	}
	if a.Router != nil {
		start("router", a.Router.Run)
	}
	start("http", a.Server.Run)
	start("bot", a.Bot.Run)

	var firstErr error
	for i := 0; i < started; i++ {
		r := <-done
		if r.err != nil && !errors.Is(r.err, context.Canceled) {
			a.Logger.ErrorContext(ctx, "Component stopped with error", attr.String("component", r.name), attr.Error(r.err))
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", r.name, r.err)
			}
		}
		cancel()
	}
	return firstErr
}

// Close releases every resource NewApp acquired. It is safe on a partially
// built App.
func (a *App) Close() error {
	var errs []error
	if a.Digest != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		errs = append(errs, a.Digest.Stop(stopCtx))
		cancel()
	}
	if a.Router != nil {
		errs = append(errs, a.Router.Close())
	}
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
