// Package cache keeps company profiles in Redis so document assembly skips a query.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arthavidhi/internal/core"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const profileTTL = 30 * time.Minute

// ProfileCache implements core.ProfileCache on a Redis client. Redis errors are
// logged and reported as misses.
type ProfileCache struct {
	rdb    *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

// Connect parses redisURL (redis://host:port/db) and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewProfileCache(rdb *redis.Client, logger *logrus.Logger) *ProfileCache {
	return &ProfileCache{rdb: rdb, logger: logger, ttl: profileTTL}
}

func profileKey(userID int) string {
	return fmt.Sprintf("profile:%d", userID)
}

func (c *ProfileCache) Get(ctx context.Context, userID int) (*core.CompanyProfile, bool) {
	val, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
		}
		return nil, false
	}
	p := &core.CompanyProfile{}
	if err := json.Unmarshal(val, p); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache entry corrupt")
		return nil, false
	}
	p.UserID = userID
	return p, true
}

func (c *ProfileCache) Set(ctx context.Context, p *core.CompanyProfile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, profileKey(p.UserID), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("user_id", p.UserID).Warn("profile cache write failed")
	}
}

func (c *ProfileCache) Invalidate(ctx context.Context, userID int) {
	if err := c.rdb.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache invalidate failed")
	}
}
