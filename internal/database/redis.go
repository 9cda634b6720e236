package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// NewRedis builds a client from a URL when given, otherwise from the address
// fields, and pings it before returning.
func NewRedis(ctx context.Context, o RedisOptions) (*redis.Client, error) {
	opts, err := buildRedisOptions(o)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

func buildRedisOptions(o RedisOptions) (*redis.Options, error) {
	if o.URL != "" {
		opts, err := redis.ParseURL(o.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}

		return opts, nil
	}

	addr := o.Addr
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	return &redis.Options{
		Addr:     addr,
		Password: o.Password,
		DB:       o.DB,
	}, nil
}
