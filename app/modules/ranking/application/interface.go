package rankingservice

import (
	"context"
	"time"

	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
)

// Service computes standings from the game ledger. A nil date means all time.
type Service interface {
	ComputeRankings(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error)
	Leaderboard(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error)
	Chart(ctx context.Context, chatID int64, date *time.Time) ([]byte, error)
	ChatsWithGames(ctx context.Context, date time.Time) ([]int64, error)
}
