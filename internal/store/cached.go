package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix      = "fleet:store:"
	generationKeyPrefix = "fleet:store:gen:"
)

// Cached serves List from Redis for a short TTL and drops the cached list on
// every write that goes through it, successful or not.
//
// Each collection has a generation counter bumped by every write. A List fills
// the cache inside a WATCH on that counter, so a fetch that raced a write never
// stores its result.
type Cached struct {
	next   Client
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached decorates next with a Redis list cache.
func NewCached(next Client, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, redis: client, ttl: ttl, logger: logger}
}

// List returns the cached list unless ctx asks for a fresh read.
func (c *Cached) List(ctx context.Context, collection string) ([]Document, error) {
	key := cacheKey(collection)
	if !FreshRead(ctx) {
		raw, err := c.redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var docs []Document
			if jsonErr := json.Unmarshal(raw, &docs); jsonErr == nil {
				return docs, nil
			}
			c.logger.Warn("discarding undecodable cache entry", zap.String("collection", collection))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("store cache read failed", zap.String("collection", collection), zap.Error(err))
		}
	}

	var (
		docs    []Document
		listErr error
		fetched bool
	)
	err := c.redis.Watch(ctx, func(tx *redis.Tx) error {
		docs, listErr = c.next.List(ctx, collection)
		fetched = true
		if listErr != nil {
			return listErr
		}
		body, err := json.Marshal(docs)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, c.ttl)
			return nil
		})
		return err
	}, generationKey(collection))

	switch {
	case !fetched:
		c.logger.Warn("store cache unavailable", zap.String("collection", collection), zap.Error(err))
		return c.next.List(ctx, collection)
	case listErr != nil:
		return nil, listErr
	case errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("store cache fill skipped; collection changed during fetch", zap.String("collection", collection))
	case err != nil:
		c.logger.Warn("store cache write failed", zap.String("collection", collection), zap.Error(err))
	}
	return docs, nil
}

func (c *Cached) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	defer c.invalidate(ctx, collection)
	return c.next.Create(ctx, collection, fields)
}

func (c *Cached) Replace(ctx context.Context, collection, id string, fields Fields) error {
	defer c.invalidate(ctx, collection)
	return c.next.Replace(ctx, collection, id, fields)
}

func (c *Cached) Delete(ctx context.Context, collection, id string) error {
	defer c.invalidate(ctx, collection)
	return c.next.Delete(ctx, collection, id)
}

// invalidate bumps the generation, aborting in-flight fills, and drops the entry.
func (c *Cached) invalidate(ctx context.Context, collection string) {
	ctx = context.WithoutCancel(ctx)
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(collection))
		pipe.Del(ctx, cacheKey(collection))
		return nil
	})
	if err != nil {
		c.logger.Warn("store cache invalidation failed", zap.String("collection", collection), zap.Error(err))
	}
}

func cacheKey(collection string) string {
	return cacheKeyPrefix + collection
}

func generationKey(collection string) string {
	return generationKeyPrefix + collection
}
