package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// In-memory Store, safe for concurrent use.
type MemStore struct {
	lk         sync.Mutex
	violations []ViolationRecord
	accounts   map[string]*FlaggedAccount
	events     []EmergencyEvent
	nextID     uint
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]*FlaggedAccount),
		nextID:   1,
	}
}

func (s *MemStore) assignID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemStore) RecordViolation(ctx context.Context, v *ViolationRecord) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	v.ID = s.assignID()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	s.violations = append(s.violations, *v)
	return nil
}

func (s *MemStore) ListViolations(ctx context.Context, userID string, limit int) ([]ViolationRecord, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	out := []ViolationRecord{}
	for i := len(s.violations) - 1; i >= 0 && len(out) < limit; i-- {
		v := s.violations[i]
		if userID != "" && v.UserID != userID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *MemStore) UpsertFlaggedAccount(ctx context.Context, acct *FlaggedAccount) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	existing, ok := s.accounts[acct.UserID]
	if !ok {
		row := *acct
		row.ID = s.assignID()
		s.accounts[acct.UserID] = &row
		return nil
	}
	mergeEscalation(existing, acct)
	return nil
}

func (s *MemStore) GetFlaggedAccount(ctx context.Context, userID string) (*FlaggedAccount, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	existing, ok := s.accounts[userID]
	if !ok {
		return nil, nil
	}
	row := *existing
	return &row, nil
}

func (s *MemStore) ListFlaggedAccounts(ctx context.Context, limit int) ([]FlaggedAccount, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	out := []FlaggedAccount{}
	for _, acct := range s.accounts {
		out = append(out, *acct)
	}
	// newest flagged first
	sort.Slice(out, func(i, j int) bool {
		return out[i].FlaggedAt.After(out[j].FlaggedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) RecordEmergency(ctx context.Context, evt *EmergencyEvent) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	evt.ID = s.assignID()
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	s.events = append(s.events, *evt)
	return nil
}

func (s *MemStore) ListEmergencyEvents(ctx context.Context, limit int) ([]EmergencyEvent, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	out := []EmergencyEvent{}
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *MemStore) SetEmergencyNotified(ctx context.Context, id uint, contactNotified, authoritiesContacted bool) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].EmergencyContactNotified = contactNotified
			s.events[i].AuthoritiesContacted = authoritiesContacted
			return nil
		}
	}
	return nil
}
