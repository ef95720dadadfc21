package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for player persistence.
type Repository interface {
	// GetByExternalID finds the player a platform user registered as in a chat.
	GetByExternalID(ctx context.Context, db bun.IDB, chatID, externalID int64) (*Player, error)

	// GetByUsername matches the handle case-insensitively within a chat.
	GetByUsername(ctx context.Context, db bun.IDB, chatID int64, username string) (*Player, error)

	// Create inserts a new player. Returns ErrDuplicate on a unique violation.
	Create(ctx context.Context, db bun.IDB, player *Player) error

	// Update rewrites the display name and handle.
	Update(ctx context.Context, db bun.IDB, player *Player) error

	// ListByChat returns every player of a chat in id order.
	ListByChat(ctx context.Context, db bun.IDB, chatID int64) ([]Player, error)
}
