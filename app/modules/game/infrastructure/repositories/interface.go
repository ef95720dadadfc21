package gamedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// Create inserts a game and fills in its id and created_at.
	Create(ctx context.Context, db bun.IDB, game *Game) error

	// SoftDelete stamps deleted_at on an active game of the chat and returns it.
	SoftDelete(ctx context.Context, db bun.IDB, chatID, gameID int64, at time.Time) (*Game, error)

	// ListActive returns the chat's active games on date, in id order, with player names.
	ListActive(ctx context.Context, db bun.IDB, chatID int64, date time.Time) ([]Game, error)

	// ListActiveBetween is ListActive over an inclusive date range.
	ListActiveBetween(ctx context.Context, db bun.IDB, chatID int64, from, to time.Time) ([]Game, error)

	// CountAll counts the chat's games including soft-deleted ones.
	CountAll(ctx context.Context, db bun.IDB, chatID int64) (int, error)
}
