package engine

import (
	"context"
	"log/slog"

	"github.com/jewel-voice/jewel/safety/cachestore"
	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/countstore"
	"github.com/jewel-voice/jewel/safety/store"
)

// Runtime for classifying content, escalating repeat or severe offenders,
// and recording every decision.
//
// All fields except Cache are required. The Catalog is immutable and shared
// without locking; the stores must be safe for concurrent callers.
type Engine struct {
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Store    store.Store
	Counters countstore.ViolationCounter
	// optional read cache for the access-gate status lookup
	Cache cachestore.StatusCache
}

var (
	// number of non-critical violations at which an account is flagged
	ProgressiveFlagThreshold = 3
	// number of non-critical violations at which an account is banned
	ProgressiveBanThreshold = 4
)

const defaultQueryLimit = 50

// Flagged-account row enriched with the live violation counters for the
// identity. ProgressiveViolations only counts the categories that feed the
// thresholds, so it reads zero for accounts escalated on a single critical
// hit.
type AccountSummary struct {
	store.FlaggedAccount
	ProgressiveViolations int `json:"progressive_violations"`
	DistinctSources       int `json:"distinct_sources"`
}

// GetViolations returns ledger entries newest first; empty userID returns
// the most recent entries across all identities. Reads never mutate state.
func (eng *Engine) GetViolations(ctx context.Context, userID string, limit int) ([]store.ViolationRecord, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	return eng.Store.ListViolations(ctx, userID, limit)
}

func (eng *Engine) GetEmergencyEvents(ctx context.Context, limit int) ([]store.EmergencyEvent, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	return eng.Store.ListEmergencyEvents(ctx, limit)
}

// GetFlaggedAccounts lists flagged and banned accounts, most recently
// flagged first, with counter state attached. Counter read failures
// degrade the summary to zeroes rather than failing the listing.
func (eng *Engine) GetFlaggedAccounts(ctx context.Context, limit int) ([]AccountSummary, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	accts, err := eng.Store.ListFlaggedAccounts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AccountSummary, 0, len(accts))
	for _, acct := range accts {
		summary := AccountSummary{FlaggedAccount: acct}
		if c, err := eng.Counters.Count(ctx, acct.UserID, countstore.PeriodTotal); err == nil {
			summary.ProgressiveViolations = c
		} else {
			eng.Logger.Warn("reading violation counter", "err", err, "user", acct.UserID)
		}
		if c, err := eng.Counters.DistinctSources(ctx, acct.UserID, countstore.PeriodTotal); err == nil {
			summary.DistinctSources = c
		} else {
			eng.Logger.Warn("reading violation source counter", "err", err, "user", acct.UserID)
		}
		out = append(out, summary)
	}
	return out, nil
}
