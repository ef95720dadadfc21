package playerservice

import (
	"context"
	"sync"

	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace []string

	GetByExternalIDFunc func(ctx context.Context, db bun.IDB, chatID, externalID int64) (*playerdb.Player, error)
	GetByUsernameFunc   func(ctx context.Context, db bun.IDB, chatID int64, username string) (*playerdb.Player, error)
	CreateFunc          func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	UpdateFunc          func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	ListByChatFunc      func(ctx context.Context, db bun.IDB, chatID int64) ([]playerdb.Player, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{trace: []string{}}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) GetByExternalID(ctx context.Context, db bun.IDB, chatID, externalID int64) (*playerdb.Player, error) {
	f.record("GetByExternalID")
	if f.GetByExternalIDFunc != nil {
		return f.GetByExternalIDFunc(ctx, db, chatID, externalID)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) GetByUsername(ctx context.Context, db bun.IDB, chatID int64, username string) (*playerdb.Player, error) {
	f.record("GetByUsername")
	if f.GetByUsernameFunc != nil {
		return f.GetByUsernameFunc(ctx, db, chatID, username)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) Create(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) Update(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) ListByChat(ctx context.Context, db bun.IDB, chatID int64) ([]playerdb.Player, error) {
	f.record("ListByChat")
	if f.ListByChatFunc != nil {
		return f.ListByChatFunc(ctx, db, chatID)
	}
	return nil, nil
}

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ playerdb.Repository = (*FakePlayerRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu        sync.Mutex
	published map[string][]*message.Message
	err       error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published[topic])
}

var _ message.Publisher = (*FakePublisher)(nil)
