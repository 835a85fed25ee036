package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/roomhaven/roomhaven-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// RateLimitAllow counts a hit against a fixed-window counter and
// reports whether the caller is still under the limit. The first hit in
// a window sets the expiry.
func RateLimitAllow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := RedisClient.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

const roomCacheTTL = time.Minute

// CacheAvailableRooms stores an available-rooms listing under the
// filter's cache key.
func CacheAvailableRooms(ctx context.Context, cacheKey string, rooms []models.Room) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "rooms:available:"+cacheKey, data, roomCacheTTL).Err()
}

// GetCachedAvailableRooms retrieves a cached available-rooms listing.
// A cache miss returns (nil, nil).
func GetCachedAvailableRooms(ctx context.Context, cacheKey string) ([]models.Room, error) {
	data, err := RedisClient.Get(ctx, "rooms:available:"+cacheKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := json.Unmarshal([]byte(data), &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// InvalidateRoomCache drops all cached room listings. Called whenever a
// booking changes status or a room is edited.
func InvalidateRoomCache(ctx context.Context) error {
	iter := RedisClient.Scan(ctx, 0, "rooms:available:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
