package playermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating players table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS players (
				id BIGSERIAL PRIMARY KEY,
				external_id BIGINT NOT NULL,
				chat_id BIGINT NOT NULL,
				first_name TEXT NOT NULL,
				username TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT players_external_chat_key UNIQUE (external_id, chat_id),
				CONSTRAINT players_id_chat_key UNIQUE (id, chat_id)
			);
			CREATE INDEX IF NOT EXISTS idx_players_chat_username ON players (chat_id, lower(username));
		`)
		if err != nil {
			return fmt.Errorf("failed to create players table: %w", err)
		}

		fmt.Println("Players table created.")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping players table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS players CASCADE;`); err != nil {
			return fmt.Errorf("failed to drop players table: %w", err)
		}
		return nil
	})
}
