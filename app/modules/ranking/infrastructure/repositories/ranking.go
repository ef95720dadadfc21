package rankingdb

import (
	"context"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/uptrace/bun"
)

// Impl implements Repository on bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ranking repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

// countBy builds "SELECT <column> AS player_id, count(*) AS <alias> ... GROUP BY <column>"
// over the chat's active games.
func countBy(db bun.IDB, column, alias string, chatID int64, date *time.Time) *bun.SelectQuery {
	q := db.NewSelect().
		TableExpr("games").
		ColumnExpr("? AS player_id", bun.Ident(column)).
		ColumnExpr("count(*) AS ?", bun.Ident(alias)).
		Where("chat_id = ?", chatID).
		Where("deleted_at IS NULL").
		GroupExpr("?", bun.Ident(column))
	if date != nil {
		q = q.Where("date = ?::date", calendar.Format(*date))
	}
	return q
}

func (r *Impl) Tally(ctx context.Context, db bun.IDB, chatID int64, date *time.Time) ([]PlayerRecord, error) {
	db = r.resolveDB(db)

	wins := countBy(db, "winner_id", "wins", chatID, date)
	losses := countBy(db, "loser_id", "losses", chatID, date)

	var records []PlayerRecord
	err := db.NewSelect().
		TableExpr("players AS p").
		ColumnExpr("p.id AS player_id").
		ColumnExpr("p.first_name").
		ColumnExpr("p.username").
		ColumnExpr("COALESCE(w.wins, 0) AS wins").
		ColumnExpr("COALESCE(l.losses, 0) AS losses").
		Join("LEFT JOIN (?) AS w ON w.player_id = p.id", wins).
		Join("LEFT JOIN (?) AS l ON l.player_id = p.id", losses).
		Where("p.chat_id = ?", chatID).
		OrderExpr("p.id ASC").
		Scan(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to tally games for chat %d: %w", chatID, err)
	}
	return records, nil
}

func (r *Impl) ChatsWithGames(ctx context.Context, db bun.IDB, date time.Time) ([]int64, error) {
	db = r.resolveDB(db)

	var chatIDs []int64
	err := db.NewSelect().
		TableExpr("games").
		ColumnExpr("DISTINCT chat_id").
		Where("deleted_at IS NULL").
		Where("date = ?::date", calendar.Format(date)).
		OrderExpr("chat_id ASC").
		Scan(ctx, &chatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats with games on %s: %w", calendar.Format(date), err)
	}
	return chatIDs, nil
}
