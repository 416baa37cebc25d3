package store

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"hackorsnooze/internal/domain"
)

// DefaultRedisKeyPrefix namespaces credential hashes.
const DefaultRedisKeyPrefix = "snooze:credentials:"

// RedisStore keeps credentials in a hash keyed by prefix + base URL.
type RedisStore struct {
	rdb goredis.Cmdable
	key string
	ttl time.Duration
}

// NewRedisStore returns a store on rdb. ttl <= 0 keeps entries forever.
func NewRedisStore(rdb goredis.Cmdable, prefix, baseURL string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{rdb: rdb, key: prefix + baseURL, ttl: ttl}
}

// Connect parses url, pings the server and returns the client.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// Key is the hash key this store writes.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) SaveCredentials(ctx context.Context, c domain.Credentials) error {
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, s.key, "token", c.Token, "username", c.Username)
		if s.ttl > 0 {
			p.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadCredentials(ctx context.Context) (domain.Credentials, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Credentials{}, false, fmt.Errorf("load credentials: %w", err)
	}
	c := domain.Credentials{Token: fields["token"], Username: fields["username"]}
	if c.Empty() {
		return domain.Credentials{}, false, nil
	}
	return c, true, nil
}

func (s *RedisStore) ClearCredentials(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

var _ domain.CredentialStore = (*RedisStore)(nil)
