package rankingdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository aggregates game results into per-player tallies.
type Repository interface {
	// Tally returns one record per player of the chat, counting only active
	// games and, when date is set, games on exactly that date.
	Tally(ctx context.Context, db bun.IDB, chatID int64, date *time.Time) ([]PlayerRecord, error)

	// ChatsWithGames lists the chats that have at least one active game on date.
	ChatsWithGames(ctx context.Context, db bun.IDB, date time.Time) ([]int64, error)
}
