package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"StockCast/internal/domain/errs"
)

// RedisStore keeps model artifacts in Redis so several instances can share
// one model cache. Artifacts never expire; retrains overwrite the key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, prefix: "stockcast:"}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(symbol string) string {
	return s.prefix + ArtifactName(symbol)
}

func (s *RedisStore) Exists(ctx context.Context, symbol string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(symbol)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Load(ctx context.Context, symbol string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.Newf(errs.KindArtifactNotFound, "model for symbol %s not found", symbol).WithSymbol(symbol)
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return b, nil
}

func (s *RedisStore) Save(ctx context.Context, symbol string, artifact []byte) error {
	if err := s.client.Set(ctx, s.key(symbol), artifact, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
