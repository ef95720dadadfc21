// Package convstate keeps each user's position in the date-entry
// conversation between updates.
package convstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
)

// Key identifies one user inside one chat.
type Key struct {
	ChatID int64
	UserID int64
}

func (k Key) String() string {
	return fmt.Sprintf("conv:%d:%d", k.ChatID, k.UserID)
}

// Store persists conversation states. A missing or expired entry reads as
// chatdomain.StateIdle.
type Store interface {
	Get(ctx context.Context, key Key) (chatdomain.State, error)
	Set(ctx context.Context, key Key, state chatdomain.State) error
	Clear(ctx context.Context, key Key) error
}

type memoryEntry struct {
	state   chatdomain.State
	expires time.Time
}

// MemoryStore keeps states in process memory with a per-entry TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl never expires entries.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: map[Key]memoryEntry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (chatdomain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return chatdomain.StateIdle, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return chatdomain.StateIdle, nil
	}
	return e.state, nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, state chatdomain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == chatdomain.StateIdle || state == "" {
		delete(m.entries, key)
		return nil
	}
	e := memoryEntry{state: state}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
