package cachestore

import (
	"context"

	"github.com/jewel-voice/jewel/safety/store"
)

// Cached snapshot of one identity's escalation state. An entry with an
// empty Status records a confirmed-clean identity, so repeat gate lookups
// for well-behaved accounts skip the database too.
type StatusEntry struct {
	Status store.AccountStatus `json:"status"`
	Reason string              `json:"reason"`
}

// Read cache in front of the flagged-accounts table, for the access-gate
// lookup that runs before every conversational turn.
//
// A miss is (nil, nil), not an error. The engine purges an identity's
// entry whenever it escalates the account, so the cache never hides a
// fresh flag or ban; the TTL only bounds staleness from writes done by
// other processes against the same database.
type StatusCache interface {
	GetStatus(ctx context.Context, userID string) (*StatusEntry, error)
	PutStatus(ctx context.Context, userID string, entry StatusEntry) error
	Purge(ctx context.Context, userID string) error
}
