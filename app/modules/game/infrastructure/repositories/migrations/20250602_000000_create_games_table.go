package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id BIGSERIAL PRIMARY KEY,
					winner_id BIGINT NOT NULL,
					loser_id BIGINT NOT NULL,
					chat_id BIGINT NOT NULL,
					date DATE NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					deleted_at TIMESTAMPTZ,
					CONSTRAINT games_distinct_players CHECK (winner_id <> loser_id),
					CONSTRAINT fk_games_winner FOREIGN KEY (winner_id, chat_id) REFERENCES players (id, chat_id),
					CONSTRAINT fk_games_loser FOREIGN KEY (loser_id, chat_id) REFERENCES players (id, chat_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_games_active_chat_date
					ON games (chat_id, date) WHERE deleted_at IS NULL;
				CREATE INDEX IF NOT EXISTS idx_games_winner ON games (winner_id);
				CREATE INDEX IF NOT EXISTS idx_games_loser ON games (loser_id);
			`); err != nil {
				return fmt.Errorf("failed to create games indexes: %w", err)
			}

			fmt.Println("Games table created.")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
			return fmt.Errorf("failed to drop games table: %w", err)
		}
		return nil
	})
}
