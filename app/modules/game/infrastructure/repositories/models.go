package gamedb

import (
	"time"

	"github.com/uptrace/bun"
)

// Game is one recorded win/loss between two players of a chat. A non-nil
// DeletedAt marks the game as retracted; the row is never removed.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID        int64      `bun:"id,pk,autoincrement"`
	WinnerID  int64      `bun:"winner_id,notnull"`
	LoserID   int64      `bun:"loser_id,notnull"`
	ChatID    int64      `bun:"chat_id,notnull"`
	Date      time.Time  `bun:"date,type:date,notnull"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt *time.Time `bun:"deleted_at"`

	Winner *PlayerRef `bun:"rel:belongs-to,join:winner_id=id"`
	Loser  *PlayerRef `bun:"rel:belongs-to,join:loser_id=id"`
}

// Active reports whether the game still counts.
func (g *Game) Active() bool { return g.DeletedAt == nil }

// WinnerName is the winner's display name, or "" when not loaded.
func (g *Game) WinnerName() string {
	if g.Winner == nil {
		return ""
	}
	return g.Winner.FirstName
}

// LoserName is the loser's display name, or "" when not loaded.
func (g *Game) LoserName() string {
	if g.Loser == nil {
		return ""
	}
	return g.Loser.FirstName
}

// PlayerRef is the slice of a player row needed to render a game.
type PlayerRef struct {
	bun.BaseModel `bun:"table:players,alias:pl"`

	ID        int64   `bun:"id,pk"`
	FirstName string  `bun:"first_name"`
	Username  *string `bun:"username"`
}
