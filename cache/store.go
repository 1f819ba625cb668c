package cache

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"

	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const keyPrefix = "gcp-footprint:discovery:"

// Client is the subset of the redis client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps the raw result of the last discovery for one session.
type RedisStore struct {
	client Client
	key    string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisStore(client Client, sessionID string, ttl time.Duration) *RedisStore {
	if sessionID == "" {
		sessionID = common.DefaultSessionID
	}

	if ttl <= 0 {
		ttl = common.DefaultCacheTTL
	}

	return &RedisStore{
		client: client,
		key:    keyPrefix + sessionID,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) Key() string {
	return s.key
}

// Save writes the result with its discovery time. The redis key expires with the TTL too.
func (s *RedisStore) Save(ctx context.Context, result *domain.Result, at time.Time) error {
	data, err := Encode(NewEntry(result, at))
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

// Load returns the cached entry if it is well formed, younger than the TTL and holds at least
// one project. A malformed entry is deleted.
func (s *RedisStore) Load(ctx context.Context) (*Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}

		return nil, err
	}

	entry, err := Decode(data)
	if err != nil {
		if delErr := s.Clear(ctx); delErr != nil {
			return nil, multierror.Append(err, delErr)
		}

		return nil, err
	}

	if entry.Age(s.now()) >= s.ttl {
		return nil, ErrExpiredEntry
	}

	if len(entry.Projects) == 0 {
		return nil, ErrCacheMiss
	}

	return entry, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
