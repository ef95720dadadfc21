package eventbus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/observability"
	"github.com/Black-And-White-Club/game-manager-bot/integration_tests/containers"
	nc "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBusRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := NewEventBus(ctx, "", slog.Default())
	require.NoError(t, err)
	defer bus.Close()

	messages, err := bus.Subscribe(ctx, GameRecordedTopic)
	require.NoError(t, err)

	pubCtx := observability.WithCorrelationID(ctx, "corr-1")
	want := GameRecordedPayload{ChatID: 100, GameIDs: []int64{7, 8}, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, Publish(pubCtx, bus, GameRecordedTopic, want))

	select {
	case msg := <-messages:
		var got GameRecordedPayload
		require.NoError(t, Decode(msg, &got))
		assert.Equal(t, want.ChatID, got.ChatID)
		assert.Equal(t, want.GameIDs, got.GameIDs)
		assert.True(t, want.Date.Equal(got.Date))
		assert.Equal(t, "corr-1", msg.Metadata.Get(MetadataCorrelationID))
		assert.Equal(t, "corr-1", observability.CorrelationID(ContextFor(msg)))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestPublishNilPublisher(t *testing.T) {
	assert.NoError(t, Publish(context.Background(), nil, GameDeletedTopic, GameDeletedPayload{}))
}

func TestStreamTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{topic: GameRecordedTopic, want: "game_recorded_v1"},
		{topic: GameDeletedTopic, want: "game_deleted_v1"},
		{topic: "plain", want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, streamTopic(tt.topic))
		})
	}
}

func TestJetStreamBusRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping NATS container test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, natsURL, err := containers.SetupNatsContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	bus, err := NewEventBus(ctx, natsURL, slog.Default())
	require.NoError(t, err)
	_, isNATS := bus.(*natsBus)
	require.True(t, isNATS, "a URL selects the JetStream bus")

	messages, err := bus.Subscribe(ctx, GameDeletedTopic)
	require.NoError(t, err)

	pubCtx := observability.WithCorrelationID(ctx, "corr-js")
	want := GameDeletedPayload{
		ChatID:    -100,
		GameID:    42,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DeletedAt: time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC),
	}
	require.NoError(t, Publish(pubCtx, bus, GameDeletedTopic, want))

	select {
	case msg := <-messages:
		var got GameDeletedPayload
		require.NoError(t, Decode(msg, &got))
		assert.Equal(t, want.ChatID, got.ChatID)
		assert.Equal(t, want.GameID, got.GameID)
		assert.True(t, want.DeletedAt.Equal(got.DeletedAt))
		assert.Equal(t, GameDeletedTopic, msg.Metadata.Get(MetadataTopic))
		assert.Equal(t, "corr-js", observability.CorrelationID(ContextFor(msg)))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for JetStream message")
	}

	conn, err := nc.Connect(natsURL)
	require.NoError(t, err)
	defer conn.Close()
	js, err := conn.JetStream()
	require.NoError(t, err)
	info, err := js.StreamInfo(streamTopic(GameDeletedTopic))
	require.NoError(t, err)
	assert.Equal(t, []string{"game_deleted_v1"}, info.Config.Subjects)

	require.NoError(t, bus.Close())
}
