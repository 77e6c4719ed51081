package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

const redisStatePrefix = "vokabel:state:"

// RedisStateRepository 基于Redis的持久化端口实现，
// 由配置 state.store=redis 选用
type RedisStateRepository struct {
	rdb *redis.Client
}

func NewRedisStateRepository(rdb *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{rdb: rdb}
}

func (r *RedisStateRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, redisStatePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisStateRepository) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, redisStatePrefix+key, value, 0).Err()
}

func (r *RedisStateRepository) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisStatePrefix+key).Err()
}
