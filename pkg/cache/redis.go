// Package cache wraps a redis client with JSON value encoding and the
// counter primitive used for rate limiting.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

type Options struct {
	Address  string
	Password string
	DB       int
}

type Option func(*Options)

func WithAddress(addr string) Option {
	return func(o *Options) { o.Address = addr }
}

func WithPassword(pass string) Option {
	return func(o *Options) { o.Password = pass }
}

func WithDB(db int) Option {
	return func(o *Options) { o.DB = db }
}

func New(ctx context.Context, opts ...Option) (*Cache, error) {
	options := &Options{
		Address: "localhost:6379",
	}
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Incr increments a counter, starting its expiry window on first use, and
// returns the new count.
func (c *Cache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
