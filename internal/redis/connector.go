package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gerakolix/cvforge/internal/logger"
)

// ConnectOptions defines how the optional Redis cache is reached.
type ConnectOptions struct {
	Addr         string        // Redis address (ex: "localhost:6379"); empty disables Redis
	User         string        // Optional username
	Password     string        // Optional password
	DB           int           // Redis DB number
	DialTimeout  time.Duration // Redis dial timeout
	ReadTimeout  time.Duration // Redis read timeout
	WriteTimeout time.Duration // Redis write timeout
	PoolSize     int           // Connection pool size
	PingTimeout  time.Duration // Timeout per ping attempt
	ConnectWait  time.Duration // Total time allowed for connection attempts
}

// New connects to Redis and verifies the connection with bounded retries.
// Returns nil without error when no address is configured: the document
// cache is optional and everything degrades to direct file reads.
func New(opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if opts.Addr == "" {
		log.Info("redis not configured, document cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	deadline := time.Now().Add(opts.ConnectWait)
	wait := time.Second
	attempt := 0

	for {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
		err := client.Ping(ctx).Err()
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", opts.Addr),
					logger.Int("attempts", attempt))
			} else {
				log.Info("connected to redis", logger.String("addr", opts.Addr))
			}
			return client, nil
		}

		if time.Now().After(deadline) {
			_ = client.Close()
			return nil, fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		}

		log.Warn("redis connection failed, retrying",
			logger.String("addr", opts.Addr),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err))

		time.Sleep(wait)
		// Exponential backoff, capped so the deadline stays meaningful.
		if wait < 8*time.Second {
			wait *= 2
		}
	}
}
