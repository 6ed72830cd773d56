package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cutekitek/rankode-judge/internal/repository/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "validation:"

var ErrNotFound = errors.New("validation not found")

type StatusStore interface {
	SetStatus(ctx context.Context, resp *models.ValidationResponse) error
	GetStatus(ctx context.Context, id string) (*models.ValidationResponse, error)
}

type redisStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatusStore(client *redis.Client, ttl time.Duration) StatusStore {
	return &redisStatusStore{client: client, ttl: ttl}
}

func (s *redisStatusStore) SetStatus(ctx context.Context, resp *models.ValidationResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "failed to encode status")
	}
	if err := s.client.Set(ctx, keyPrefix+resp.Id, data, s.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store status of %s", resp.Id)
	}
	return nil
}

func (s *redisStatusStore) GetStatus(ctx context.Context, id string) (*models.ValidationResponse, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load status of %s", id)
	}

	var resp models.ValidationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrapf(err, "invalid status of %s", id)
	}
	return &resp, nil
}
