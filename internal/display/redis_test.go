package display

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergutierz/SaturnClient/internal/common/logger"
)

const testChannel = "saturn:test:events"

func setupRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *redis.Client, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	d := NewRedis(client, RedisConfig{
		KeyPrefix: "saturn:test",
		Channel:   testChannel,
		TTL:       ttl,
	}, logger.NewTestLogger(t))
	return mr, client, d
}

func subscribe(t *testing.T, client *redis.Client) *redis.PubSub {
	t.Helper()
	ctx := context.Background()
	sub := client.Subscribe(ctx, testChannel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub
}

func nextEvent(t *testing.T, sub *redis.PubSub) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	return event
}

func TestRedis_ShowStatsStoresSnapshot(t *testing.T) {
	mr, client, d := setupRedis(t, time.Minute)
	sub := subscribe(t, client)
	mr.Set(d.ErrorKey(), "stale")

	require.NoError(t, d.ShowStats(context.Background(), "run-1", sampleStats()))

	raw, err := mr.Get(d.LatestKey())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, sampleStats(), snap.Stats)
	assert.Equal(t, time.Minute, mr.TTL(d.LatestKey()))
	assert.False(t, mr.Exists(d.ErrorKey()), "a successful run clears the last error")

	event := nextEvent(t, sub)
	assert.Equal(t, Event{Type: EventStats, RunID: "run-1", Count: 2}, event)
}

func TestRedis_ShowStatsEmptyIsArray(t *testing.T) {
	mr, _, d := setupRedis(t, 0)

	require.NoError(t, d.ShowStats(context.Background(), "run-2", nil))

	raw, err := mr.Get(d.LatestKey())
	require.NoError(t, err)
	assert.Contains(t, raw, `"stats":[]`)
	assert.Equal(t, time.Duration(0), mr.TTL(d.LatestKey()))
}

func TestRedis_SetBusy(t *testing.T) {
	mr, client, d := setupRedis(t, 0)
	sub := subscribe(t, client)

	d.SetBusy(true)
	got, err := mr.Get(d.BusyKey())
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, Event{Type: EventBusy, Busy: true}, nextEvent(t, sub))

	d.SetBusy(false)
	got, err = mr.Get(d.BusyKey())
	require.NoError(t, err)
	assert.Equal(t, "0", got)
	assert.Equal(t, Event{Type: EventBusy}, nextEvent(t, sub))
}

func TestRedis_ShowError(t *testing.T) {
	mr, client, d := setupRedis(t, 0)
	sub := subscribe(t, client)

	d.ShowError("An error occurred: boom")

	got, err := mr.Get(d.ErrorKey())
	require.NoError(t, err)
	assert.Equal(t, "An error occurred: boom", got)
	assert.Equal(t, Event{Type: EventError, Message: "An error occurred: boom"}, nextEvent(t, sub))
}

func TestRedis_ShowStatsFailure(t *testing.T) {
	mr, _, d := setupRedis(t, 0)
	mr.SetError("LOADING server is loading")

	err := d.ShowStats(context.Background(), "run-3", sampleStats())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store snapshot in redis")

	assert.NotPanics(t, func() {
		d.SetBusy(true)
		d.ShowError("ignored")
	})
}

func TestRedis_NoChannelSkipsPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := NewRedis(client, RedisConfig{KeyPrefix: "p"}, logger.NewNoOpLogger())
	require.NoError(t, d.ShowStats(context.Background(), "run", sampleStats()))

	assert.True(t, mr.Exists("p:latest"))
}
