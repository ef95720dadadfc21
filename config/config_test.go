package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "DATABASE_URL", "DEVELOPER_ID", "TELEGRAM_POLL_TIMEOUT",
		"REDIS_ADDR", "REDIS_DB", "NATS_URL", "APP_TIMEZONE", "CONVERSATION_TTL",
		"DIGEST_ENABLED", "DIGEST_HOUR", "HTTP_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
  token: file-token
  developer_chat_id: 42
postgres:
  dsn: postgres://file
redis:
  addr: localhost:6379
app:
  timezone: UTC
  conversation_ttl: 5m
digest:
  enabled: true
  hour: 21
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.DeveloperChatID)
	assert.Equal(t, DefaultPollTimeout, cfg.Telegram.PollTimeout)
	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.App.ConversationTTL)
	assert.True(t, cfg.Digest.Enabled)
	assert.Equal(t, 21, cfg.Digest.Hour)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
  token: file-token
postgres:
  dsn: postgres://file
`)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("DEVELOPER_ID", "7")
	t.Setenv("CONVERSATION_TTL", "30s")
	t.Setenv("DIGEST_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, int64(7), cfg.Telegram.DeveloperChatID)
	assert.Equal(t, 30*time.Second, cfg.App.ConversationTTL)
	assert.True(t, cfg.Digest.Enabled)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTimezone, cfg.App.Timezone)
	assert.Equal(t, DefaultConversationTTL, cfg.App.ConversationTTL)
	assert.Equal(t, DefaultDigestHour, cfg.Digest.Hour)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing token",
			env:     map[string]string{"DATABASE_URL": "postgres://env"},
			wantErr: "BOT_TOKEN",
		},
		{
			name:    "missing dsn",
			env:     map[string]string{"BOT_TOKEN": "t"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "bad developer id",
			env:     map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "d", "DEVELOPER_ID": "abc"},
			wantErr: "DEVELOPER_ID",
		},
		{
			name:    "bad timezone",
			env:     map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "d", "APP_TIMEZONE": "Mars/Olympus"},
			wantErr: "invalid timezone",
		},
		{
			name:    "digest hour out of range",
			env:     map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "d", "DIGEST_HOUR": "24"},
			wantErr: "digest hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
