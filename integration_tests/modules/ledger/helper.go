package ledgerintegrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	rankingservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/application"
	rankingdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
)

// TestDeps holds the real services wired against the shared database.
type TestDeps struct {
	Ctx      context.Context
	Players  playerservice.Service
	Games    gameservice.Service
	Rankings rankingservice.Service
	GameRepo gamedb.Repository
}

// SetupLedger resets the database and builds fresh services.
func SetupLedger(t *testing.T) TestDeps {
	t.Helper()
	ctx := testEnv.Ctx
	require.NoError(t, testEnv.Reset(ctx))

	db := testEnv.DB
	logger := testEnv.Logger
	tracer := noop.NewTracerProvider().Tracer("test")
	metrics := observability.NewNoop()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { bus.Close() })

	gameRepo := gamedb.NewRepository(db)
	return TestDeps{
		Ctx:      ctx,
		Players:  playerservice.NewPlayerService(playerdb.NewRepository(db), logger, metrics, tracer, db, bus),
		Games:    gameservice.NewGameService(gameRepo, logger, metrics, tracer, db, bus, time.UTC),
		Rankings: rankingservice.NewRankingService(rankingdb.NewRepository(db), logger, metrics, tracer, db),
		GameRepo: gameRepo,
	}
}

func register(t *testing.T, deps TestDeps, chatID int64, identity playerservice.Identity) gameservice.Participant {
	t.Helper()
	res, err := deps.Players.Register(deps.Ctx, chatID, identity)
	require.NoError(t, err)
	return gameservice.Participant{ID: res.Player.ID, ChatID: chatID, Name: res.Player.FirstName}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
