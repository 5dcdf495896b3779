package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemStoreViolations(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	for i := 0; i < 5; i++ {
		user := "alice"
		if i%2 == 1 {
			user = "bob"
		}
		assert.NoError(s.RecordViolation(ctx, &ViolationRecord{
			UserID:   user,
			Category: "NSFW",
			Severity: "HIGH",
			Reason:   fmt.Sprintf("violation %d", i),
		}))
	}

	all, err := s.ListViolations(ctx, "", 10)
	assert.NoError(err)
	assert.Len(all, 5)
	// newest first
	assert.Equal("violation 4", all[0].Reason)
	assert.Equal("violation 0", all[4].Reason)

	alice, err := s.ListViolations(ctx, "alice", 10)
	assert.NoError(err)
	assert.Len(alice, 3)
	for _, v := range alice {
		assert.Equal("alice", v.UserID)
	}

	limited, err := s.ListViolations(ctx, "", 2)
	assert.NoError(err)
	assert.Len(limited, 2)

	// reads do not mutate state
	again, err := s.ListViolations(ctx, "", 10)
	assert.NoError(err)
	assert.Equal(all, again)
}

func TestMemStoreEscalationMonotonic(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	acct, err := s.GetFlaggedAccount(ctx, "carol")
	assert.NoError(err)
	assert.Nil(acct)

	t0 := time.Now().UTC()
	assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
		UserID:    "carol",
		Reason:    "NSFW content",
		Severity:  "HIGH",
		Status:    StatusFlagged,
		FlaggedAt: t0,
	}))

	acct, err = s.GetFlaggedAccount(ctx, "carol")
	assert.NoError(err)
	assert.NotNil(acct)
	assert.Equal(StatusFlagged, acct.Status)
	assert.Nil(acct.BannedAt)

	// flagged -> banned
	t1 := t0.Add(time.Minute)
	assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
		UserID:    "carol",
		Reason:    "CSAM content",
		Severity:  "CRITICAL",
		Status:    StatusBanned,
		FlaggedAt: t1,
		BannedAt:  &t1,
	}))

	acct, err = s.GetFlaggedAccount(ctx, "carol")
	assert.NoError(err)
	assert.Equal(StatusBanned, acct.Status)
	assert.NotNil(acct.BannedAt)

	// a later non-critical violation never downgrades
	t2 := t1.Add(time.Minute)
	assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
		UserID:    "carol",
		Reason:    "NSFW content",
		Severity:  "HIGH",
		Status:    StatusFlagged,
		FlaggedAt: t2,
	}))

	acct, err = s.GetFlaggedAccount(ctx, "carol")
	assert.NoError(err)
	assert.Equal(StatusBanned, acct.Status)
	assert.NotNil(acct.BannedAt)
	assert.Equal("CSAM content", acct.Reason)
}

func TestMemStoreFlaggedRefresh(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	t0 := time.Now().UTC()
	assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
		UserID: "dave", Reason: "NSFW content", Severity: "HIGH", Status: StatusFlagged, FlaggedAt: t0,
	}))
	t1 := t0.Add(time.Hour)
	assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
		UserID: "dave", Reason: "Repeated policy violations", Severity: "HIGH", Status: StatusFlagged, FlaggedAt: t1,
	}))

	acct, err := s.GetFlaggedAccount(ctx, "dave")
	assert.NoError(err)
	assert.Equal(StatusFlagged, acct.Status)
	assert.Equal("Repeated policy violations", acct.Reason)
	assert.Equal(t1, acct.FlaggedAt)
	assert.Nil(acct.BannedAt)
}

func TestMemStoreEmergencyEvents(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	evt := &EmergencyEvent{
		UserID:          "erin",
		EventType:       EventDistressDetected,
		Description:     "Distress or abuse detected in audio",
		AudioTranscript: "please stop hurting me",
	}
	assert.NoError(s.RecordEmergency(ctx, evt))
	assert.NotZero(evt.ID)

	evts, err := s.ListEmergencyEvents(ctx, 10)
	assert.NoError(err)
	assert.Len(evts, 1)
	assert.False(evts[0].EmergencyContactNotified)
	assert.False(evts[0].AuthoritiesContacted)

	assert.NoError(s.SetEmergencyNotified(ctx, evt.ID, true, false))
	evts, err = s.ListEmergencyEvents(ctx, 10)
	assert.NoError(err)
	assert.True(evts[0].EmergencyContactNotified)
	assert.False(evts[0].AuthoritiesContacted)
}

func TestMemStoreListFlaggedAccounts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()

	base := time.Now().UTC()
	for i, user := range []string{"u1", "u2", "u3"} {
		assert.NoError(s.UpsertFlaggedAccount(ctx, &FlaggedAccount{
			UserID:    user,
			Reason:    "NSFW content",
			Severity:  "HIGH",
			Status:    StatusFlagged,
			FlaggedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	accts, err := s.ListFlaggedAccounts(ctx, 2)
	assert.NoError(err)
	assert.Len(accts, 2)
	assert.Equal("u3", accts[0].UserID)
	assert.Equal("u2", accts[1].UserID)
}
