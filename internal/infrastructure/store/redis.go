package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/woiladev/marketplace-client/internal/config"
	"github.com/woiladev/marketplace-client/internal/infrastructure/monitoring"
	"github.com/woiladev/marketplace-client/internal/pkg/logger"
)

type Connection struct {
	client *redis.Client
}

func NewConnection(cfg config.RedisConfig) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Connection{
		client: client,
	}, nil
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) GetClient() *redis.Client {
	return c.client
}

// RedisStore is a durable scope backed by Redis, for headless deployments
// where session state must outlive the local filesystem. Keys are namespaced
// per client id so several clients can share one instance.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

func NewRedisStore(conn *Connection, clientID string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: conn.GetClient(),
		prefix: fmt.Sprintf("client:%s", clientID),
		log:    log,
	}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *RedisStore) Get(key string) ([]byte, bool) {
	value, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.fail("get", err)
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(key string, value []byte) {
	if err := s.client.Set(context.Background(), s.key(key), value, 0).Err(); err != nil {
		s.fail("set", err)
	}
}

func (s *RedisStore) Remove(key string) {
	if err := s.client.Del(context.Background(), s.key(key)).Err(); err != nil {
		s.fail("remove", err)
	}
}

func (s *RedisStore) Clear() {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.fail("clear", err)
		}
	}
	if err := iter.Err(); err != nil {
		s.fail("clear", err)
	}
}

func (s *RedisStore) fail(op string, err error) {
	monitoring.StoreFailuresTotal.WithLabelValues("redis", op).Inc()
	s.log.Warn("Redis store operation failed", "op", op, "error", err.Error())
}
