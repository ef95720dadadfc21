package gameservice

import (
	"context"
	"time"

	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
)

// Participant is a resolved player as the game service needs it.
type Participant struct {
	ID       int64
	ChatID   int64
	Name     string
	Username string
}

// Label names the player in error replies: the username when set, otherwise
// the first name.
func (p Participant) Label() string {
	if p.Username != "" {
		return p.Username
	}
	return p.Name
}

// Pair is one "Winner beat Loser" result inside a /played command.
type Pair struct {
	Winner Participant
	Loser  Participant
}

// Service records, retracts and lists games.
type Service interface {
	// RecordGames stores every pair as a game in one transaction. A nil date
	// means today in the reference time zone.
	RecordGames(ctx context.Context, chatID int64, pairs []Pair, date *time.Time) ([]gamedb.Game, error)

	// DeleteGame soft deletes an active game of the chat.
	DeleteGame(ctx context.Context, chatID, gameID int64) (*gamedb.Game, error)

	// ListGames returns the chat's active games on date in id order.
	ListGames(ctx context.Context, chatID int64, date time.Time) ([]gamedb.Game, error)

	// ExportGames renders the active games between from and to as an XLSX workbook.
	ExportGames(ctx context.Context, chatID int64, from, to time.Time) ([]byte, error)
}
