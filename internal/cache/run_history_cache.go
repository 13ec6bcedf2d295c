package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"devbench/internal/model"
)

// RunHistoryCache keeps a session's run list in Redis. A short-lived
// dirty marker set on every new run keeps readers off a stale entry
// until the write settles.
type RunHistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewRunHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *RunHistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &RunHistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *RunHistoryCache) GetRuns(ctx context.Context, sessionID uint) ([]model.Run, bool, error) {
	raw, err := c.client.Get(ctx, c.runsKey(sessionID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get runs failed: %w", err)
	}

	var runs []model.Run
	if err := json.Unmarshal([]byte(raw), &runs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached runs failed: %w", err)
	}
	return runs, true, nil
}

func (c *RunHistoryCache) SetRuns(ctx context.Context, sessionID uint, runs []model.Run) error {
	payload, err := json.Marshal(runs)
	if err != nil {
		return fmt.Errorf("marshal runs cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.runsKey(sessionID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set runs failed: %w", err)
	}
	return nil
}

func (c *RunHistoryCache) DeleteRuns(ctx context.Context, sessionID uint) error {
	if err := c.client.Del(ctx, c.runsKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete runs failed: %w", err)
	}
	return nil
}

func (c *RunHistoryCache) MarkDirty(ctx context.Context, sessionID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(sessionID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *RunHistoryCache) IsDirty(ctx context.Context, sessionID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *RunHistoryCache) runsKey(sessionID uint) string {
	return fmt.Sprintf("dev:runs:%d", sessionID)
}

func (c *RunHistoryCache) dirtyKey(sessionID uint) string {
	return fmt.Sprintf("dev:runs:dirty:%d", sessionID)
}
