// Package cache provides the Redis client and small cache-aside helpers.
package cache

import (
	"context"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client, nil when Redis is unreachable.
var Client *redis.Client

// InitRedis connects to Redis at addr. The application degrades gracefully
// when Redis is unavailable, so a failed ping leaves Client nil rather than
// aborting startup.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection warning (continuing without cache)", "error", err.Error())
		Client = nil
	} else {
		middleware.Logger.Info("Redis connected successfully")
	}
}

// GetClient returns the shared Redis client (possibly nil).
func GetClient() *redis.Client {
	return Client
}
