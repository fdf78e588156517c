package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a Redis client for the claim rate limiter, or nil when
// no address is configured or the server is unreachable. A nil client
// disables rate limiting rather than blocking startup.
func ConnectRedis(address, password string) *redis.Client {
	if address == "" {
		log.Println("No Redis address configured, claim rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis, claim rate limiting disabled: %v", err)
		return nil
	}

	log.Println("Connected to Redis")
	return client
}
