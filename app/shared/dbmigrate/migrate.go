// Package dbmigrate runs the schema migrations of every module in
// dependency order, plus the River queue tables when the digest is enabled.
package dbmigrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	gamemigrations "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Module names one module's migration set.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules lists the module migrations. games references players, so the
// order matters.
func Modules() []Module {
	return []Module{
		{Name: "player", Migrations: playermigrations.Migrations},
		{Name: "game", Migrations: gamemigrations.Migrations},
	}
}

// Migrators returns one bun migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	migrators := make(map[string]*migrate.Migrator)
	for _, mod := range Modules() {
		migrators[mod.Name] = migrate.NewMigrator(db, mod.Migrations)
	}
	return migrators
}

// Up creates the migration tables if needed and applies every pending
// module migration.
func Up(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	modules := Modules()

	if err := migrate.NewMigrator(db, modules[0].Migrations).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	for _, mod := range modules {
		group, err := migrate.NewMigrator(db, mod.Migrations).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations to run", attr.String("module", mod.Name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			attr.String("module", mod.Name),
			attr.String("group", group.String()),
		)
	}
	return nil
}

// RiverUp applies the River queue migrations on a short-lived pgx pool.
func RiverUp(ctx context.Context, dsn string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	logger.InfoContext(ctx, "River queue migrations completed")
	return nil
}
