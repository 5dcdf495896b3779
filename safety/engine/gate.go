package engine

import (
	"context"
	"fmt"

	"github.com/jewel-voice/jewel/safety/cachestore"
	"github.com/jewel-voice/jewel/safety/store"
)

// IsAccountFlagged is the access gate: callers must consult it before
// engaging the model for an identity-bound input, and short-circuit when
// blocked. Both FLAGGED and BANNED suppress service. Unknown identities
// are not blocked.
func (eng *Engine) IsAccountFlagged(ctx context.Context, userID string) (bool, string, error) {
	if userID == "" {
		return false, "", nil
	}

	if eng.Cache != nil {
		if entry, err := eng.Cache.GetStatus(ctx, userID); err == nil && entry != nil {
			blocked, msg := statusMessage(entry.Status, entry.Reason)
			return blocked, msg, nil
		}
	}

	acct, err := eng.Store.GetFlaggedAccount(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("reading account status: %w", err)
	}

	// a zero-value entry caches the confirmed-clean case
	entry := cachestore.StatusEntry{}
	if acct != nil {
		entry.Status = acct.Status
		entry.Reason = acct.Reason
	}
	if eng.Cache != nil {
		if err := eng.Cache.PutStatus(ctx, userID, entry); err != nil {
			eng.Logger.Warn("caching account status", "err", err, "user", userID)
		}
	}

	blocked, msg := statusMessage(entry.Status, entry.Reason)
	return blocked, msg, nil
}

func statusMessage(status store.AccountStatus, reason string) (bool, string) {
	switch status {
	case store.StatusBanned:
		return true, fmt.Sprintf("Account banned: %s", reason)
	case store.StatusFlagged:
		return true, fmt.Sprintf("Account flagged: %s", reason)
	default:
		return false, ""
	}
}
