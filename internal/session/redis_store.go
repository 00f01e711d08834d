package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/tutorhub-client/internal/config"
)

const redisKeyPrefix = "tutorhub:session:"

// RedisStore keeps session state in Redis, for shared-terminal setups where
// the local filesystem is not a safe place for credentials.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis using the provided configuration.
func NewRedisStore(cfg config.RedisConfig, logger *zap.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	}

	return &RedisStore{client: client, logger: logger}
}

// Close closes the underlying client.
func (r *RedisStore) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

func (r *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := r.opContext()
	defer cancel()
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (r *RedisStore) Set(key, value string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *RedisStore) Remove(key string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisStore) Clear() error {
	ctx, cancel := r.opContext()
	defer cancel()
	keys, err := r.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
