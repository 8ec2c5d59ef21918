package redissvc

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront-crm/internal/config"
)

// RedisService bundles the client with the root context of the process, so
// background work stops with it.
type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

// Connect builds a client from cfg and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*RedisService, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return NewRedisService(client, ctx), nil
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Ctx() context.Context {
	return a.ctx
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
