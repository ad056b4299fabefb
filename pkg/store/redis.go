package store

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix; circuits live in the hash "<prefix>:circuits"
}

// RedisStore keeps circuits as fields of one Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection, retrying a
// few times while the server comes up.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		client.Close()
		return nil, persistence(err, "connect to redis at %s", cfg.Addr)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "logicflow"
	}
	return &RedisStore{client: client, key: prefix + ":circuits"}, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	data, err := encode(name, doc)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, name, data).Err(); err != nil {
		return persistence(err, "save circuit %q", name)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	data, err := s.client.HGet(ctx, s.key, name).Bytes()
	if err == redis.Nil {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, persistence(err, "load circuit %q", name)
	}
	return decode(name, data)
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, persistence(err, "list circuits")
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	n, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return persistence(err, "delete circuit %q", name)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
