package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)

func GetRedisDB() *redis.Client {
	return rdb
}

// GetRedisLock returns the distributed lock client, nil when Redis is not
// configured. Callers fall back to in-process locking when nil.
func GetRedisLock() *redislock.Client {
	return locker
}

func init() {
	godotenv.Load()
}

// ConnectRedisWithRetry connects the shared Redis client when REDIS_ADDRESS
// is set. Redis is optional: it only provides cross-instance partition locks,
// so a missing address is not an error.
func ConnectRedisWithRetry() {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Printf("REDIS_ADDRESS not set; using in-process partition locks")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	var attempt int
	for {
		attempt++
		err := client.Ping(context.Background()).Err()
		if err == nil {
			rdb = client
			locker = redislock.New(client)
			log.Printf("connected to redis (attempt=%d)", attempt)
			return
		}
		if attempt >= 5 {
			log.Printf("redis unreachable after %d attempts: %v; using in-process partition locks", attempt, err)
			return
		}
		time.Sleep(time.Second * time.Duration(attempt))
	}
}
