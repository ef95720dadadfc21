package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByExternalID finds the player a platform user registered as in a chat.
func (r *Impl) GetByExternalID(ctx context.Context, db bun.IDB, chatID, externalID int64) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("chat_id = ?", chatID).
		Where("external_id = ?", externalID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player by external id: %w", err)
	}
	return player, nil
}

// GetByUsername matches the handle case-insensitively within a chat.
func (r *Impl) GetByUsername(ctx context.Context, db bun.IDB, chatID int64, username string) (*Player, error) {
	db = r.resolveDB(db)
	username = strings.TrimPrefix(username, "@")
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("chat_id = ?", chatID).
		Where("lower(username) = lower(?)", username).
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player by username: %w", err)
	}
	return player, nil
}

// Create inserts a new player and fills in its id.
func (r *Impl) Create(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()
	player.CreatedAt = now
	player.UpdatedAt = now
	_, err := db.NewInsert().
		Model(player).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// Update rewrites the display name and handle.
func (r *Impl) Update(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	player.UpdatedAt = time.Now().UTC()
	result, err := db.NewUpdate().
		Model(player).
		Column("first_name", "username", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByChat returns every player of a chat in id order.
func (r *Impl) ListByChat(ctx context.Context, db bun.IDB, chatID int64) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("chat_id = ?", chatID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}
