// Package redis connects to the Redis instance that carries todo events.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	infracontext "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/context"
)

// Config is the connection configuration for NewClient.
type Config struct {
	Address  string
	Password string
	DB       int
}

// ErrEmptyAddress is returned by NewClient when Address is blank.
var ErrEmptyAddress = errors.New("redis address is required")

// NewClient dials Redis and verifies it answers PING before returning.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}
	return client, nil
}
