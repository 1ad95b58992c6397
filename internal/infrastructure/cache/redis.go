package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Redis is a catalog cache shared across processes. Entries carry their
// stored-at timestamp inside a JSON envelope because the staleness decision
// belongs to the catalog service, not to key expiry; the Redis TTL only
// bounds how long an unrefreshed stale entry survives at all.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

type redisEnvelope struct {
	Products []domain.Product `json:"products"`
	StoredAt time.Time        `json:"stored_at"`
}

var _ ports.CatalogCache = (*Redis)(nil)

// NewRedis wraps an established client. ttl bounds entry lifetime and should
// comfortably exceed the catalog staleness window.
func NewRedis(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

func (r *Redis) Get(ctx context.Context, key string) ([]domain.Product, bool, time.Time) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return nil, false, time.Time{}
	}
	if err != nil {
		// Treated as a miss: the catalog service falls back to a fetch.
		r.log.Warn().Err(err).Str("key", key).Msg("redis cache read failed")
		return nil, false, time.Time{}
	}

	var env redisEnvelope
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("corrupt redis cache entry, dropping")
		_ = r.client.Del(ctx, r.key(key)).Err()
		return nil, false, time.Time{}
	}
	return env.Products, true, env.StoredAt
}

func (r *Redis) Set(ctx context.Context, key string, products []domain.Product) error {
	data, err := json.Marshal(redisEnvelope{Products: products, StoredAt: time.Now()})
	if err != nil {
		return fmt.Errorf("redis cache encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache write: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis cache delete: %w", err)
	}
	return nil
}

func (r *Redis) key(key string) string {
	return "catalog:" + key
}
