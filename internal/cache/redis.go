package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implementa Store sobre Redis (>= 6.2 por GETDEL).
type RedisStore struct {
	client *redis.Client
	cfg    Config
}

// NewRedis conecta y verifica con PING. Sin Redis el proceso no arranca.
func NewRedis(ctx context.Context, cfg Config) (*RedisStore, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.timeout(),
		WriteTimeout: cfg.timeout(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: rdb, cfg: cfg}, nil
}

// NewRedisFromClient envuelve un cliente existente (tests, wiring compartido).
func NewRedisFromClient(client *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{client: client, cfg: cfg}
}

// Client expone el cliente para componentes que comparten conexión (rate limiter).
func (s *RedisStore) Client() *redis.Client { return s.client }

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	if err := s.client.Set(ctx, s.cfg.key(key), value, ttl).Err(); err != nil {
		return s.cfg.unavailable("put", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	v, err := s.client.Get(ctx, s.cfg.key(key)).Result()
	return s.result("get", v, err)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	if err := s.client.Del(ctx, s.cfg.key(key)).Err(); err != nil {
		return s.cfg.unavailable("delete", err)
	}
	return nil
}

func (s *RedisStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	v, err := s.client.GetDel(ctx, s.cfg.key(key)).Result()
	return s.result("getdel", v, err)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout())
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return s.cfg.unavailable("ping", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) result(op, v string, err error) (string, error) {
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, redis.Nil):
		return "", ErrNotFound
	default:
		return "", s.cfg.unavailable(op, err)
	}
}
