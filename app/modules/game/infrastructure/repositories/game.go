package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a game and fills in its id and created_at.
func (r *Impl) Create(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(game).
		ExcludeColumn("deleted_at").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on an active game of the chat and returns it.
func (r *Impl) SoftDelete(ctx context.Context, db bun.IDB, chatID, gameID int64, at time.Time) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewUpdate().
		Model(game).
		Set("deleted_at = ?", at).
		Where("id = ?", gameID).
		Where("chat_id = ?", chatID).
		Where("deleted_at IS NULL").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to soft delete game: %w", err)
	}
	return game, nil
}

// ListActive returns the chat's active games on date, in id order, with player names.
func (r *Impl) ListActive(ctx context.Context, db bun.IDB, chatID int64, date time.Time) ([]Game, error) {
	return r.ListActiveBetween(ctx, db, chatID, date, date)
}

// ListActiveBetween is ListActive over an inclusive date range.
func (r *Impl) ListActiveBetween(ctx context.Context, db bun.IDB, chatID int64, from, to time.Time) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Relation("Winner").
		Relation("Loser").
		Where("g.chat_id = ?", chatID).
		Where("g.deleted_at IS NULL").
		Where("g.date BETWEEN ?::date AND ?::date", calendar.Format(from), calendar.Format(to)).
		OrderExpr("g.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// CountAll counts the chat's games including soft-deleted ones.
func (r *Impl) CountAll(ctx context.Context, db bun.IDB, chatID int64) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Game)(nil)).
		Where("chat_id = ?", chatID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}
