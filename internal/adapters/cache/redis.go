// Package cache holds the redis-backed server-side caching: the client
// factory and the read-through decorator over the habit repository.
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache operations sit on the request path, so they get short timeouts:
// a slow redis must degrade to a repository read, not stall the API.
const (
	dialTimeout = 5 * time.Second
	opTimeout   = 3 * time.Second
	pingTimeout = 3 * time.Second
)

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	// PoolSize defaults to the go-redis default when zero.
	PoolSize int
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient connects and pings, so a misconfigured redis surfaces at
// startup instead of on the first cached request.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.addr(), err)
	}

	return rdb, nil
}
