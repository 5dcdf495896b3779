package countstore

import (
	"context"
	"sync"
)

// In-memory ViolationCounter. The engine is invoked from many concurrent
// request handlers, so all access is mutex-guarded.
type MemViolationCounter struct {
	lk      sync.Mutex
	counts  map[string]int
	sources map[string]map[string]bool
}

var _ ViolationCounter = (*MemViolationCounter)(nil)

func NewMemViolationCounter() *MemViolationCounter {
	return &MemViolationCounter{
		counts:  make(map[string]int),
		sources: make(map[string]map[string]bool),
	}
}

func (s *MemViolationCounter) Increment(ctx context.Context, userID string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	for _, p := range []string{PeriodTotal, PeriodDay, PeriodHour} {
		s.counts[periodBucket(userID, p)]++
	}
	return nil
}

func (s *MemViolationCounter) Count(ctx context.Context, userID, period string) (int, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.counts[periodBucket(userID, period)], nil
}

func (s *MemViolationCounter) NoteSource(ctx context.Context, userID, ipAddress string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	for _, p := range []string{PeriodTotal, PeriodDay, PeriodHour} {
		k := periodBucket(userID, p)
		m, ok := s.sources[k]
		if !ok {
			m = make(map[string]bool)
			s.sources[k] = m
		}
		m[ipAddress] = true
	}
	return nil
}

func (s *MemViolationCounter) DistinctSources(ctx context.Context, userID, period string) (int, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return len(s.sources[periodBucket(userID, period)]), nil
}
