package rankingservice

import (
	"context"
	"time"

	rankingdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeRankingRepo struct {
	trace []string

	TallyFunc          func(ctx context.Context, db bun.IDB, chatID int64, date *time.Time) ([]rankingdb.PlayerRecord, error)
	ChatsWithGamesFunc func(ctx context.Context, db bun.IDB, date time.Time) ([]int64, error)
}

func NewFakeRankingRepo() *FakeRankingRepo {
	return &FakeRankingRepo{trace: []string{}}
}

func (f *FakeRankingRepo) Tally(ctx context.Context, db bun.IDB, chatID int64, date *time.Time) ([]rankingdb.PlayerRecord, error) {
	f.trace = append(f.trace, "Tally")
	if f.TallyFunc != nil {
		return f.TallyFunc(ctx, db, chatID, date)
	}
	return nil, nil
}

func (f *FakeRankingRepo) ChatsWithGames(ctx context.Context, db bun.IDB, date time.Time) ([]int64, error) {
	f.trace = append(f.trace, "ChatsWithGames")
	if f.ChatsWithGamesFunc != nil {
		return f.ChatsWithGamesFunc(ctx, db, date)
	}
	return nil, nil
}

func (f *FakeRankingRepo) Trace() []string {
	return append([]string(nil), f.trace...)
}

var _ rankingdb.Repository = (*FakeRankingRepo)(nil)
