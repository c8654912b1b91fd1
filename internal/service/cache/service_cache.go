package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "Radon/pkg/cache"
)

// ServiceCache adapts a pkg/cache Service to the BytesCache interface the
// bar source and HTTP handlers consume. Values travel as raw strings so the
// backend stores them without an extra JSON wrapping.
type ServiceCache struct {
	svc pkgcache.Service
}

func NewServiceCache(svc pkgcache.Service) *ServiceCache {
	return &ServiceCache{svc: svc}
}

func (s *ServiceCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := s.svc.Get(ctx, key, &raw)
	if errors.Is(err, pkgcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(raw), true, nil
}

func (s *ServiceCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.svc.Set(ctx, key, string(value), ttl)
}

var _ BytesCache = (*ServiceCache)(nil)
