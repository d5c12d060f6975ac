package service

import (
	"context"
	"time"

	"sitecms/internal/cache"
)

// Cache is the part of the redis cache the catalogue services read
// through. A nil *cache.Client satisfies it and never hits.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string) error
}

var _ Cache = (*cache.Client)(nil)

func orNoCache(c Cache) Cache {
	if c == nil {
		return (*cache.Client)(nil)
	}
	return c
}
