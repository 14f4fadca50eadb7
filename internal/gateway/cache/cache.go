// Package cache remembers verified bearer credentials so the gateway does
// not ask the identity store on every request. Entries never outlive the
// credential they describe.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	redis "github.com/redis/go-redis/v9"
)

// IdentityCache maps a bearer token to its verified identity.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*models.Identity, bool)
	Set(ctx context.Context, token string, id *models.Identity)
	Close() error
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Identity, bool) { return nil, false }
func (Nop) Set(context.Context, string, *models.Identity)        {}
func (Nop) Close() error                                         { return nil }

// kv is the slice of the redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCache stores identities in Redis. Every failure is logged and
// treated as a miss.
type RedisCache struct {
	client  kv
	logger  logging.Logger
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewRedisCache connects to Redis and checks it answers.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration, logger logging.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newRedisCache(client, ttl, logger), nil
}

func newRedisCache(client kv, ttl time.Duration, logger logging.Logger) *RedisCache {
	return &RedisCache{
		client:  client,
		logger:  logger.With("module", "identity_cache"),
		prefix:  "postpromo:identity:",
		ttl:     ttl,
		timeout: 250 * time.Millisecond,
		now:     time.Now,
	}
}

// key hashes the token so raw credentials never reach Redis.
func (c *RedisCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, token string) (*models.Identity, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn(ctx, "identity cache read failed", "error", err)
		}
		return nil, false
	}

	id := &models.Identity{}
	if err := json.Unmarshal(raw, id); err != nil {
		c.logger.Warn(ctx, "identity cache entry unreadable", "error", err)
		return nil, false
	}
	if !id.ExpiresAt.After(c.now()) {
		return nil, false
	}
	return id, true
}

// Set stores id for min(configured ttl, time left on the credential).
func (c *RedisCache) Set(ctx context.Context, token string, id *models.Identity) {
	ttl := c.ttl
	if left := id.ExpiresAt.Sub(c.now()); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(id)
	if err != nil {
		c.logger.Warn(ctx, "identity cache encode failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.client.Set(ctx, c.key(token), raw, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "identity cache write failed", "error", err)
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
