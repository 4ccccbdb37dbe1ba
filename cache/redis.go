package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"WorshipHub/config"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps entries as JSON under "{namespace}:{kind}:{id}" so the
// CLI can reuse responses across invocations of the same login session.
// Invalidated keys are deleted.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// ConnectRedis opens a client from cfg and pings it.
func ConnectRedis(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStore(client, cfg.CacheNamespace), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Check performs a set/get/delete round trip under the namespace.
func (s *RedisStore) Check(ctx context.Context) error {
	probe := s.namespace + ":probe"
	if err := s.client.Set(ctx, probe, "ok", time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}
	val, err := s.client.Get(ctx, probe).Result()
	if err != nil {
		return fmt.Errorf("failed to get Redis key: %w", err)
	}
	if val != "ok" {
		return fmt.Errorf("unexpected value from Redis: got %s", val)
	}
	if err := s.client.Del(ctx, probe).Err(); err != nil {
		return fmt.Errorf("failed to delete Redis key: %w", err)
	}
	return nil
}

func (s *RedisStore) redisKey(k Key) string {
	return fmt.Sprintf("%s:%s:%s", s.namespace, k.Kind, k.ID)
}

func (s *RedisStore) parseKey(rk string) (Key, bool) {
	rest := strings.TrimPrefix(rk, s.namespace+":")
	if rest == rk {
		return Key{}, false
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return Key{}, false
	}
	return Key{Kind: Kind(parts[0]), ID: parts[1]}, true
}

// Get returns the stored JSON as json.RawMessage.
func (s *RedisStore) Get(ctx context.Context, key Key) (interface{}, bool, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.RawMessage(data), true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	// no expiration: entries live until invalidated
	if err := s.client.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	rks := make([]string, len(keys))
	for i, k := range keys {
		rks[i] = s.redisKey(k)
	}
	return s.client.Del(ctx, rks...).Err()
}

// scan walks every key under the namespace.
func (s *RedisStore) scan(ctx context.Context, fn func(rk string, k Key)) error {
	iter := s.client.Scan(ctx, 0, s.namespace+":*", 200).Iterator()
	for iter.Next(ctx) {
		rk := iter.Val()
		if k, ok := s.parseKey(rk); ok {
			fn(rk, k)
		}
	}
	return iter.Err()
}

func (s *RedisStore) deleteWhere(ctx context.Context, match func(Key) bool) error {
	var doomed []string
	if err := s.scan(ctx, func(rk string, k Key) {
		if match(k) {
			doomed = append(doomed, rk)
		}
	}); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(doomed) == 0 {
		return nil
	}
	return s.client.Del(ctx, doomed...).Err()
}

func (s *RedisStore) InvalidateKind(ctx context.Context, kind Kind) error {
	return s.deleteWhere(ctx, func(k Key) bool { return k.Kind == kind })
}

func (s *RedisStore) InvalidatePrefix(ctx context.Context, prefix string) error {
	return s.deleteWhere(ctx, func(k Key) bool { return k.HasPrefix(prefix) })
}

func (s *RedisStore) InvalidateContaining(ctx context.Context, substr string) error {
	return s.deleteWhere(ctx, func(k Key) bool { return k.Contains(substr) })
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.deleteWhere(ctx, func(Key) bool { return true })
}

func (s *RedisStore) Keys(ctx context.Context) ([]Key, error) {
	var keys []Key
	err := s.scan(ctx, func(_ string, k Key) {
		keys = append(keys, k)
	})
	return keys, err
}
