package display

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ergutierz/SaturnClient/internal/common/logger"
	"github.com/ergutierz/SaturnClient/internal/models"
)

// Event types published on the Redis channel.
const (
	EventBusy  = "busy"
	EventStats = "stats"
	EventError = "error"
)

const redisCallTimeout = 3 * time.Second

// RedisConfig names the keys and channel the Redis display writes to.
type RedisConfig struct {
	KeyPrefix string
	Channel   string
	// TTL applies to the stored snapshot and error; zero keeps them.
	TTL time.Duration
}

// Snapshot is the JSON stored under <prefix>:latest.
type Snapshot struct {
	RunID       string            `json:"runId"`
	PublishedAt time.Time         `json:"publishedAt"`
	Count       int               `json:"count"`
	Stats       []models.TeamStat `json:"stats"`
}

// Event is the JSON published on the channel for every state change.
type Event struct {
	Type    string `json:"type"`
	RunID   string `json:"runId,omitempty"`
	Count   int    `json:"count,omitempty"`
	Busy    bool   `json:"busy,omitempty"`
	Message string `json:"message,omitempty"`
}

// Redis keeps the latest result set, the busy flag and the last error in
// Redis so other processes can render them, and announces each change on a
// pub/sub channel.
type Redis struct {
	client *redis.Client
	config RedisConfig
	logger logger.Logger
}

func NewRedis(client *redis.Client, config RedisConfig, log logger.Logger) *Redis {
	return &Redis{
		client: client,
		config: config,
		logger: log.With(map[string]interface{}{"display": "redis"}),
	}
}

func (r *Redis) LatestKey() string { return r.config.KeyPrefix + ":latest" }
func (r *Redis) BusyKey() string   { return r.config.KeyPrefix + ":busy" }
func (r *Redis) ErrorKey() string  { return r.config.KeyPrefix + ":last_error" }

// SetBusy cannot report failures to the caller, so they are logged.
func (r *Redis) SetBusy(busy bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	flag := "0"
	if busy {
		flag = "1"
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.BusyKey(), flag, 0)
		r.publish(ctx, pipe, Event{Type: EventBusy, Busy: busy})
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to update busy flag", map[string]interface{}{
			"busy":  busy,
			"error": err,
		})
	}
}

func (r *Redis) ShowStats(ctx context.Context, runID string, stats []models.TeamStat) error {
	if stats == nil {
		stats = []models.TeamStat{}
	}
	payload, err := json.Marshal(Snapshot{
		RunID:       runID,
		PublishedAt: time.Now().UTC(),
		Count:       len(stats),
		Stats:       stats,
	})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.LatestKey(), payload, r.config.TTL)
		pipe.Del(ctx, r.ErrorKey())
		r.publish(ctx, pipe, Event{Type: EventStats, RunID: runID, Count: len(stats)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store snapshot in redis: %w", err)
	}

	r.logger.Debug("snapshot stored", map[string]interface{}{
		"runId": runID,
		"key":   r.LatestKey(),
		"count": len(stats),
	})
	return nil
}

func (r *Redis) ShowError(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.ErrorKey(), message, r.config.TTL)
		r.publish(ctx, pipe, Event{Type: EventError, Message: message})
		return nil
	})
	if err != nil {
		r.logger.Warn("failed to store error message", map[string]interface{}{
			"error": err,
		})
	}
}

func (r *Redis) publish(ctx context.Context, pipe redis.Pipeliner, event Event) {
	if r.config.Channel == "" {
		return
	}
	// Event only holds strings, ints and bools; Marshal cannot fail.
	data, _ := json.Marshal(event)
	pipe.Publish(ctx, r.config.Channel, data)
}
