package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gridboard/pkg/document"
	errs "github.com/matzehuels/gridboard/pkg/errors"
)

// Redis defaults.
const (
	DefaultRedisURL    = "redis://localhost:6379/0"
	DefaultRedisPrefix = "gridboard:"
)

// RedisConfig configures [NewRedisStore].
type RedisConfig struct {
	URL    string        // redis:// URL; defaults to DefaultRedisURL
	Prefix string        // key prefix; defaults to DefaultRedisPrefix
	TTL    time.Duration // zero keeps boards forever
}

// RedisStore keeps each board under "<prefix>board:<id>" and the set of ids
// under "<prefix>boards".
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and pings it, retrying with backoff.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	url := cfg.URL
	if url == "" {
		url = DefaultRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "redis url")
	}
	client := redis.NewClient(opts)
	if err := ping(ctx, func(ctx context.Context) error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(errs.ErrCodeStore, err, "connect redis %s", opts.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. The store closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string { return s.prefix + "board:" + id }
func (s *RedisStore) setKey() string       { return s.prefix + "boards" }

func (s *RedisStore) Get(ctx context.Context, id string) (*document.Document, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "redis get %q", id)
	}
	return decode(id, data)
}

func (s *RedisStore) Put(ctx context.Context, doc *document.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(doc.DashboardID), data, s.ttl)
		pipe.SAdd(ctx, s.setKey(), doc.DashboardID)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "redis put %q", doc.DashboardID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.SRem(ctx, s.setKey(), id)
		return nil
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "redis delete %q", id)
	}
	return nil
}

// List returns the ids in the index set whose board key still exists. Ids
// whose board expired are pruned from the set.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.setKey()).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "redis list")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		exists[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "redis list")
	}

	live := ids[:0]
	var stale []any
	for i, id := range ids {
		if exists[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, s.setKey(), stale...).Err()
	}
	slices.Sort(live)
	return live, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
