package containers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ledgerImage    = "postgres:16-alpine"
	ledgerDatabase = "game_manager"
	ledgerUser     = "game_manager"
	ledgerPassword = "game_manager"
)

// ledgerDSN is the DSN for the ledger database at host:port.
func ledgerDSN(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		ledgerUser, ledgerPassword, host, port.Port(), ledgerDatabase)
}

// SetupPostgresContainer starts an empty ledger database and returns it with
// a DSN that bun and River can both use. Readiness means a pgx connection
// answers, not just that the port is open.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	log.Println("Starting Postgres container...")

	pgContainer, err := postgres.Run(ctx,
		ledgerImage,
		postgres.WithDatabase(ledgerDatabase),
		postgres.WithUsername(ledgerUser),
		postgres.WithPassword(ledgerPassword),
		postgres.WithSQLDriver("pgx"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForSQL("5432/tcp", "pgx", ledgerDSN),
			).WithDeadline(60*time.Second),
		),
	)
	if err != nil {
		if pgContainer != nil {
			pgContainer.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	log.Printf("Postgres container started and ready. Database: %s", ledgerDatabase)
	return pgContainer, dsn, nil
}
