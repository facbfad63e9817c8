package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyspace-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const kvKeyPrefix = "studyspace"

// RedisKVStore keeps workspace slices under studyspace:<user>:<key>.
type RedisKVStore struct {
	rdb *redis.Client
	ttl time.Duration // 0 keeps keys forever
}

func NewRedisKVStore(rdb *redis.Client, ttl time.Duration) contract.KVStore {
	return &RedisKVStore{rdb: rdb, ttl: ttl}
}

func redisKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("%s:%s:%s", kvKeyPrefix, userID, key)
}

func (s *RedisKVStore) Get(ctx context.Context, userID uuid.UUID, key string, dst interface{}) (bool, error) {
	raw, err := s.rdb.Get(ctx, redisKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisKVStore) Set(ctx context.Context, userID uuid.UUID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, redisKey(userID, key), raw, s.ttl).Err()
}

func (s *RedisKVStore) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	return s.rdb.Del(ctx, redisKey(userID, key)).Err()
}
