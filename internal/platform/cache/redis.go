package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client and verifies the connection.
func Connect(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// KeyResultCache holds the normalized answer-key result text per
// assignment, so submissions do not re-run the reference query every
// time. The cache key carries a digest of the key query, so editing an
// assignment's answer key naturally misses.
type KeyResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewKeyResultCache(rdb *redis.Client, ttl time.Duration) *KeyResultCache {
	return &KeyResultCache{rdb: rdb, ttl: ttl}
}

func (c *KeyResultCache) Get(ctx context.Context, assignmentID int64, keyQuery string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, cacheKey(assignmentID, keyQuery)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (c *KeyResultCache) Set(ctx context.Context, assignmentID int64, keyQuery, normalized string) error {
	return c.rdb.Set(ctx, cacheKey(assignmentID, keyQuery), normalized, c.ttl).Err()
}

// Invalidate drops the cached result for an assignment regardless of the
// key query text it was cached under.
func (c *KeyResultCache) Invalidate(ctx context.Context, assignmentID int64) error {
	pattern := fmt.Sprintf("keyresult:%d:*", assignmentID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func cacheKey(assignmentID int64, keyQuery string) string {
	sum := sha256.Sum256([]byte(keyQuery))
	return fmt.Sprintf("keyresult:%d:%s", assignmentID, hex.EncodeToString(sum[:8]))
}
