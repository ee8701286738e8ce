package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/consistency/internal/constants"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/models"
)

// RedisStore keeps the document as a single string value. SET replaces the
// value in one step, so readers never see a partial document.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore parses a redis:// or rediss:// URL. No connection is made
// until the first call.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second
	opts.PoolSize = 10

	return &RedisStore{
		client: redis.NewClient(opts),
		key:    constants.RedisDocumentKey,
	}, nil
}

func (s *RedisStore) Init(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: failed to connect to redis: %v", apperrors.ErrStoreUnavailable, err)
	}

	data, err := models.EncodeDocument(models.NewDocument())
	if err != nil {
		return err
	}
	created, err := s.client.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	if !created {
		return fmt.Errorf("storage already initialized at %s", s.GetConfigPath())
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read document: %v", apperrors.ErrStoreUnavailable, err)
	}

	doc, err := models.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse document: %v", apperrors.ErrStoreUnavailable, err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize document: %v", apperrors.ErrStoreUnavailable, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to write document: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) GetConfigPath() string {
	// The URL may carry a password
	return "redis"
}

func (s *RedisStore) Kind() string {
	return KindRedis
}
