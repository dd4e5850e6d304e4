package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BloggingApp/comment-service/internal/repository/aggregate"
)

// ErrCacheMiss is returned by the generic getters when the key is absent
// or expired; callers fall back to the relational store.
var ErrCacheMiss = errors.New("cache miss")

type defaultRepo struct {
	store aggregate.Store
}

type Default interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

func newDefaultRepo(store aggregate.Store) Default {
	return &defaultRepo{
		store: store,
	}
}

func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.store.SetString(ctx, key, string(valueJSON), ttl)
}

func (r *defaultRepo) Get(ctx context.Context, key string) (string, error) {
	value, ok, err := r.store.GetString(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrCacheMiss
	}
	return value, nil
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) error {
	return r.store.Del(ctx, keys...)
}

func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	value, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if value == "null" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func GetMany[T any](r Default, ctx context.Context, key string) ([]*T, error) {
	value, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if value == "null" {
		return nil, nil
	}

	var result []*T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return result, nil
}
