package engine

import (
	"context"
	"time"

	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/countstore"
	"github.com/jewel-voice/jewel/safety/store"
)

// Applies the account-level side effect of a violation. CSAM bans and
// VIOLENCE flags are unconditional, regardless of prior history; NSFW and
// ILLEGAL feed the violation counter and escalate past the progressive
// thresholds. Anonymous callers get a ledger entry but have no account to
// escalate.
func (eng *Engine) escalateAccount(ctx context.Context, userID, ipAddress string, cat catalog.Category) {
	if userID == "" {
		return
	}
	if ipAddress != "" {
		// every attributed violation notes its source address; the distinct
		// estimate surfaces on the flagged-accounts listing
		if err := eng.Counters.NoteSource(ctx, userID, ipAddress); err != nil {
			eng.Logger.Error("recording violation source", "err", err, "user", userID)
		}
	}
	switch {
	case cat == catalog.CategoryCSAM:
		eng.flagAccount(ctx, userID, ipAddress, "CSAM content", catalog.SeverityCritical, store.StatusBanned)
	case cat == catalog.CategoryViolence:
		eng.flagAccount(ctx, userID, ipAddress, "Violence/abuse content", catalog.SeverityHigh, store.StatusFlagged)
	case cat.Progressive():
		if err := eng.Counters.Increment(ctx, userID); err != nil {
			eng.Logger.Error("incrementing violation counter", "err", err, "user", userID)
			return
		}
		count, err := eng.Counters.Count(ctx, userID, countstore.PeriodTotal)
		if err != nil {
			eng.Logger.Error("reading violation counter", "err", err, "user", userID)
			return
		}
		switch {
		case count >= ProgressiveBanThreshold:
			eng.flagAccount(ctx, userID, ipAddress, "Repeated policy violations", catalog.SeverityHigh, store.StatusBanned)
		case count >= ProgressiveFlagThreshold:
			eng.flagAccount(ctx, userID, ipAddress, "Repeated policy violations", catalog.SeverityHigh, store.StatusFlagged)
		}
	}
}

func (eng *Engine) flagAccount(ctx context.Context, userID, ipAddress, reason string, sev catalog.Severity, status store.AccountStatus) {
	now := time.Now().UTC()
	acct := &store.FlaggedAccount{
		UserID:    userID,
		IPAddress: ipAddress,
		Reason:    reason,
		Severity:  string(sev),
		Status:    status,
		FlaggedAt: now,
	}
	if status == store.StatusBanned {
		acct.BannedAt = &now
	}
	if err := eng.Store.UpsertFlaggedAccount(ctx, acct); err != nil {
		eng.Logger.Error("escalating account", "err", err, "user", userID, "status", status)
		return
	}
	accountEscalationCount.WithLabelValues(string(status)).Inc()
	eng.Logger.Warn("account escalated", "user", userID, "status", status, "reason", reason)
	eng.purgeStatusCache(ctx, userID)
}

func (eng *Engine) purgeStatusCache(ctx context.Context, userID string) {
	if eng.Cache == nil {
		return
	}
	if err := eng.Cache.Purge(ctx, userID); err != nil {
		eng.Logger.Warn("purging account status cache", "err", err, "user", userID)
	}
}
