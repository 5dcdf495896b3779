package cachestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// In-process StatusCache for single-node deployments and tests.
type MemStatusCache struct {
	Data *expirable.LRU[string, StatusEntry]
}

var _ StatusCache = (*MemStatusCache)(nil)

func NewMemStatusCache(capacity int, ttl time.Duration) *MemStatusCache {
	return &MemStatusCache{
		Data: expirable.NewLRU[string, StatusEntry](capacity, nil, ttl),
	}
}

func (s *MemStatusCache) GetStatus(ctx context.Context, userID string) (*StatusEntry, error) {
	entry, ok := s.Data.Get(userID)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemStatusCache) PutStatus(ctx context.Context, userID string, entry StatusEntry) error {
	s.Data.Add(userID, entry)
	return nil
}

func (s *MemStatusCache) Purge(ctx context.Context, userID string) error {
	s.Data.Remove(userID)
	return nil
}
