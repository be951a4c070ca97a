package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"iotview/config"
)

const tokenKey = "iotview:session:token"

// RedisStore keeps the session token in Redis, for web-mode deployments
// where the process may be restarted or replicated. The token is stored
// without expiry: the backend owns session lifetime.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: rdb,
		ctx:    ctx,
	}, nil
}

func (s *RedisStore) Token() (string, error) {
	val, err := s.client.Get(s.ctx, tokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session token from Redis: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Save(token string) error {
	if err := s.client.Set(s.ctx, tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token to Redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	if err := s.client.Del(s.ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session token from Redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
