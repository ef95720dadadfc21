package gameservice

import (
	"context"
	"sync"
	"time"

	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace  []string
	nextID int64

	CreateFunc            func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	SoftDeleteFunc        func(ctx context.Context, db bun.IDB, chatID, gameID int64, at time.Time) (*gamedb.Game, error)
	ListActiveFunc        func(ctx context.Context, db bun.IDB, chatID int64, date time.Time) ([]gamedb.Game, error)
	ListActiveBetweenFunc func(ctx context.Context, db bun.IDB, chatID int64, from, to time.Time) ([]gamedb.Game, error)
	CountAllFunc          func(ctx context.Context, db bun.IDB, chatID int64) (int, error)
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{trace: []string{}}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) Create(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, game)
	}
	f.nextID++
	game.ID = f.nextID
	return nil
}

func (f *FakeGameRepo) SoftDelete(ctx context.Context, db bun.IDB, chatID, gameID int64, at time.Time) (*gamedb.Game, error) {
	f.record("SoftDelete")
	if f.SoftDeleteFunc != nil {
		return f.SoftDeleteFunc(ctx, db, chatID, gameID, at)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) ListActive(ctx context.Context, db bun.IDB, chatID int64, date time.Time) ([]gamedb.Game, error) {
	f.record("ListActive")
	if f.ListActiveFunc != nil {
		return f.ListActiveFunc(ctx, db, chatID, date)
	}
	return nil, nil
}

func (f *FakeGameRepo) ListActiveBetween(ctx context.Context, db bun.IDB, chatID int64, from, to time.Time) ([]gamedb.Game, error) {
	f.record("ListActiveBetween")
	if f.ListActiveBetweenFunc != nil {
		return f.ListActiveBetweenFunc(ctx, db, chatID, from, to)
	}
	return nil, nil
}

func (f *FakeGameRepo) CountAll(ctx context.Context, db bun.IDB, chatID int64) (int, error) {
	f.record("CountAll")
	if f.CountAllFunc != nil {
		return f.CountAllFunc(ctx, db, chatID)
	}
	return 0, nil
}

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	published map[string][]*message.Message
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Messages(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*message.Message(nil), p.published[topic]...)
}

var _ message.Publisher = (*FakePublisher)(nil)
