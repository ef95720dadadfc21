package chathandlers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle chat entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute

	DefaultRateLimit rate.Limit = 1
	DefaultBurst                = 5

	// DefaultMaxWait bounds how long an update may queue for its chat's token.
	DefaultMaxWait = 5 * time.Second
)

type chatEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatRateLimiter hands out one token bucket per chat and prunes stale entries inline.
type ChatRateLimiter struct {
	chats map[int64]*chatEntry
	mu    sync.Mutex
	r     rate.Limit
	b     int
	now   func() time.Time
}

// NewChatRateLimiter creates a new ChatRateLimiter.
func NewChatRateLimiter(r rate.Limit, b int) *ChatRateLimiter {
	return &ChatRateLimiter{
		chats: make(map[int64]*chatEntry),
		r:     r,
		b:     b,
		now:   time.Now,
	}
}

// Reserve takes the chat's next token and reports how long the caller must
// wait before serving it. When that wait would exceed maxWait nothing is
// consumed and ok is false.
func (l *ChatRateLimiter) Reserve(chatID int64, maxWait time.Duration) (delay time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.chats) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.chats {
			if e.lastSeen.Before(cutoff) {
				delete(l.chats, k)
			}
		}
	}

	e, exists := l.chats[chatID]
	if !exists {
		e = &chatEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.chats[chatID] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return 0, false
	}
	delay = r.DelayFrom(now)
	if delay > maxWait {
		r.CancelAt(now)
		return delay, false
	}
	return delay, true
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
