package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reena96/unseenedgeai-sub001/core"
)

// RedisStore provides Redis-backed storage for window states, so multiple
// check-service instances throttle against the same budgets
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration // How long to keep window state in Redis
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// RedisConfig for creating a Redis store
type RedisConfig struct {
	Addr     string        // Redis address (e.g., "localhost:6379")
	Password string        // Redis password (empty for no auth)
	DB       int           // Redis database number
	TTL      time.Duration // TTL for window states (default: 2 hours, past the hour window)
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(config RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ttl := config.TTL
	if ttl == 0 {
		ttl = 2 * time.Hour // Default TTL, outlives the hour window
	}

	return &RedisStore{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
	}
}

// Get retrieves the window state for a resource
func (s *RedisStore) Get(resource string) *core.WindowState {
	val, err := s.client.Get(s.ctx, s.key(resource)).Result()
	if err != nil {
		// Key doesn't exist or error occurred
		return nil
	}

	var state core.WindowState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil
	}

	return &state
}

// Set stores the window state for a resource
func (s *RedisStore) Set(resource string, state *core.WindowState) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}

	s.client.Set(s.ctx, s.key(resource), data, s.ttl)
}

// Delete removes the window state for a resource
func (s *RedisStore) Delete(resource string) {
	s.client.Del(s.ctx, s.key(resource))
}

// Clear removes all rate limit keys from Redis
func (s *RedisStore) Clear() {
	iter := s.client.Scan(s.ctx, 0, "ratelimit:*", 0).Iterator()
	for iter.Next(s.ctx) {
		s.client.Del(s.ctx, iter.Val())
	}
}

// Ping checks if Redis connection is alive
func (s *RedisStore) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(resource string) string {
	return "ratelimit:" + resource
}
