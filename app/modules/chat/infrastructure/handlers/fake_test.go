package chathandlers

import (
	"context"
	"sync"
	"time"

	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
	rankingservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/application"
	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ------------------------
// Fake Messenger
// ------------------------

type FakeMessenger struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable

	SendErr error
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{}
}

func (m *FakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, c)
	return tgbotapi.Message{}, m.SendErr
}

func (m *FakeMessenger) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Messages returns the text messages sent so far.
func (m *FakeMessenger) Messages() []tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range m.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Callbacks returns the callback query answers requested so far.
func (m *FakeMessenger) Callbacks() []tgbotapi.CallbackConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range m.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

// Edits returns the message edits requested so far.
func (m *FakeMessenger) Edits() []tgbotapi.EditMessageTextConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range m.requests {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *FakeMessenger) Sent() []tgbotapi.Chattable {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]tgbotapi.Chattable, len(m.sent))
	copy(out, m.sent)
	return out
}

var _ Messenger = (*FakeMessenger)(nil)

// ------------------------
// Fake Player Service
// ------------------------

type FakePlayerService struct {
	trace []string

	RegisterFunc    func(ctx context.Context, chatID int64, identity playerservice.Identity) (*playerservice.RegisterResult, error)
	ResolveFunc     func(ctx context.Context, chatID int64, mentions []playerservice.Mention) ([]playerdb.Player, error)
	ListPlayersFunc func(ctx context.Context, chatID int64) ([]playerdb.Player, error)
}

func (f *FakePlayerService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakePlayerService) Register(ctx context.Context, chatID int64, identity playerservice.Identity) (*playerservice.RegisterResult, error) {
	f.record("Register")
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, chatID, identity)
	}
	return &playerservice.RegisterResult{Player: &playerdb.Player{ChatID: chatID, ExternalID: identity.ExternalID}, Created: true}, nil
}

func (f *FakePlayerService) Resolve(ctx context.Context, chatID int64, mentions []playerservice.Mention) ([]playerdb.Player, error) {
	f.record("Resolve")
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, chatID, mentions)
	}
	return nil, nil
}

func (f *FakePlayerService) ListPlayers(ctx context.Context, chatID int64) ([]playerdb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, chatID)
	}
	return nil, nil
}

func (f *FakePlayerService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ playerservice.Service = (*FakePlayerService)(nil)

// ------------------------
// Fake Game Service
// ------------------------

type FakeGameService struct {
	trace []string

	RecordGamesFunc func(ctx context.Context, chatID int64, pairs []gameservice.Pair, date *time.Time) ([]gamedb.Game, error)
	DeleteGameFunc  func(ctx context.Context, chatID, gameID int64) (*gamedb.Game, error)
	ListGamesFunc   func(ctx context.Context, chatID int64, date time.Time) ([]gamedb.Game, error)
	ExportGamesFunc func(ctx context.Context, chatID int64, from, to time.Time) ([]byte, error)
}

func (f *FakeGameService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeGameService) RecordGames(ctx context.Context, chatID int64, pairs []gameservice.Pair, date *time.Time) ([]gamedb.Game, error) {
	f.record("RecordGames")
	if f.RecordGamesFunc != nil {
		return f.RecordGamesFunc(ctx, chatID, pairs, date)
	}
	return nil, nil
}

func (f *FakeGameService) DeleteGame(ctx context.Context, chatID, gameID int64) (*gamedb.Game, error) {
	f.record("DeleteGame")
	if f.DeleteGameFunc != nil {
		return f.DeleteGameFunc(ctx, chatID, gameID)
	}
	return &gamedb.Game{ID: gameID, ChatID: chatID}, nil
}

func (f *FakeGameService) ListGames(ctx context.Context, chatID int64, date time.Time) ([]gamedb.Game, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx, chatID, date)
	}
	return nil, nil
}

func (f *FakeGameService) ExportGames(ctx context.Context, chatID int64, from, to time.Time) ([]byte, error) {
	f.record("ExportGames")
	if f.ExportGamesFunc != nil {
		return f.ExportGamesFunc(ctx, chatID, from, to)
	}
	return []byte("xlsx"), nil
}

func (f *FakeGameService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gameservice.Service = (*FakeGameService)(nil)

// ------------------------
// Fake Ranking Service
// ------------------------

type FakeRankingService struct {
	trace []string

	ComputeRankingsFunc func(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error)
	LeaderboardFunc     func(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error)
	ChartFunc           func(ctx context.Context, chatID int64, date *time.Time) ([]byte, error)
	ChatsWithGamesFunc  func(ctx context.Context, date time.Time) ([]int64, error)
}

func (f *FakeRankingService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeRankingService) ComputeRankings(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error) {
	f.record("ComputeRankings")
	if f.ComputeRankingsFunc != nil {
		return f.ComputeRankingsFunc(ctx, chatID, date)
	}
	return nil, nil
}

func (f *FakeRankingService) Leaderboard(ctx context.Context, chatID int64, date *time.Time) ([]rankingdomain.Row, error) {
	f.record("Leaderboard")
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, chatID, date)
	}
	return nil, nil
}

func (f *FakeRankingService) Chart(ctx context.Context, chatID int64, date *time.Time) ([]byte, error) {
	f.record("Chart")
	if f.ChartFunc != nil {
		return f.ChartFunc(ctx, chatID, date)
	}
	return []byte("png"), nil
}

func (f *FakeRankingService) ChatsWithGames(ctx context.Context, date time.Time) ([]int64, error) {
	f.record("ChatsWithGames")
	if f.ChatsWithGamesFunc != nil {
		return f.ChatsWithGamesFunc(ctx, date)
	}
	return nil, nil
}

func (f *FakeRankingService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rankingservice.Service = (*FakeRankingService)(nil)
