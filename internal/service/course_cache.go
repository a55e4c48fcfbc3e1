package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"certificados/internal/models"
)

const courseCacheKey = "courses:available"

// RedisCourseCache caches the badge list in Redis. Cache problems are
// logged and treated as misses; the database stays authoritative.
type RedisCourseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCourseCache builds a course cache with the given TTL.
func NewRedisCourseCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCourseCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCourseCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCourseCache) Get(ctx context.Context) ([]models.AvailableCourse, bool) {
	raw, err := c.client.Get(ctx, courseCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("course cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var courses []models.AvailableCourse
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.logger.Warn("course cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return courses, true
}

func (c *RedisCourseCache) Set(ctx context.Context, courses []models.AvailableCourse) {
	raw, err := json.Marshal(courses)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, courseCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("course cache write failed", zap.Error(err))
	}
}
