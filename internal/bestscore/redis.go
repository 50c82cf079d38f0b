package bestscore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the best score in a single string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (int, error) {
	score, err := s.client.Get(ctx, s.key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, persistenceError("redis get "+s.key, err)
	}
	return score, nil
}

func (s *RedisStore) Save(ctx context.Context, score int) error {
	if err := s.client.Set(ctx, s.key, score, 0).Err(); err != nil {
		return persistenceError("redis set "+s.key, err)
	}
	return nil
}
