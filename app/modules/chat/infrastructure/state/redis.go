package convstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps states in Redis so they survive restarts and are shared
// between replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect opens a client and checks it answers within five seconds.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) Get(ctx context.Context, key Key) (chatdomain.State, error) {
	val, err := r.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return chatdomain.StateIdle, nil
	}
	if err != nil {
		return chatdomain.StateIdle, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return chatdomain.State(val), nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, state chatdomain.State) error {
	if state == chatdomain.StateIdle || state == "" {
		return r.Clear(ctx, key)
	}
	if err := r.client.Set(ctx, key.String(), string(state), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, key Key) error {
	if err := r.client.Del(ctx, key.String()).Err(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
