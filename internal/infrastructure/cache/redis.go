package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YouSangSon/admin-backoffice/internal/domain/repository"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
)

// ErrCacheMiss는 키가 캐시에 없을 때 발생합니다
var ErrCacheMiss = fmt.Errorf("cache miss")

// redisCache는 Redis 기반 캐시 저장소입니다
type redisCache struct {
	client *redis.Client
}

// NewRedisCache는 새로운 Redis 캐시 저장소를 생성합니다
func NewRedisCache(addr, password string, db int) (repository.CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// 연결 확인
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

// Get은 캐시 값을 dest로 역직렬화합니다. 키가 없으면 ErrCacheMiss입니다
func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	start := time.Now()
	defer func() {
		logger.Debug(ctx, "cache get operation",
			logger.CacheKey(key),
			logger.Duration(time.Since(start)),
		)
	}()

	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Set은 캐시에 값을 저장합니다
func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete는 캐시에서 값을 삭제합니다
func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Close는 Redis 연결을 종료합니다
func (r *redisCache) Close() error {
	return r.client.Close()
}
