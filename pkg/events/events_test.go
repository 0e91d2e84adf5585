package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBroker(t *testing.T) *RedisBroker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBroker(client, nil)
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	broker := setupBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 1)
	require.NoError(t, broker.Subscribe(ctx, VideosChannel, func(_ context.Context, e Event) error {
		received <- e
		return nil
	}))

	at := time.UnixMilli(1700000000000)
	event := NewEvent(TypeVideoUploaded, VideoUploaded{VideoID: "v1", UploaderID: "u1", Title: "clip", FileSize: 42}, at)
	require.NoError(t, broker.Publish(ctx, VideosChannel, event))

	select {
	case got := <-received:
		assert.Equal(t, TypeVideoUploaded, got.Type)
		assert.Equal(t, int64(1700000000000), got.Timestamp)

		raw, err := json.Marshal(got.Payload)
		require.NoError(t, err)
		var payload VideoUploaded
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "v1", payload.VideoID)
		assert.Equal(t, int64(42), payload.FileSize)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisBroker_SkipsMalformedPayload(t *testing.T) {
	broker := setupBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 2)
	require.NoError(t, broker.Subscribe(ctx, VideosChannel, func(_ context.Context, e Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, broker.Client.Publish(ctx, VideosChannel, "not json").Err())
	require.NoError(t, broker.Publish(ctx, VideosChannel, NewEvent(TypeVideoUploaded, nil, time.Now())))

	select {
	case got := <-received:
		assert.Equal(t, TypeVideoUploaded, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}
