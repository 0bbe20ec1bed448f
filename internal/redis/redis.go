package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func Init(addr, password string) *redis.Client {
	if addr == "" {
		log.Fatal("REDIS_ADDR required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}
	return rdb
}
