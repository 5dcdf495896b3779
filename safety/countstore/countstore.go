// Period-bucketed violation counters which drive progressive account
// escalation.
//
// Counts are tracked per identity, per hour, per day, and all-time.
// Source tracking estimates the number of distinct network addresses an
// identity has violated from, surfaced on the flagged-accounts listing.
package countstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	PeriodTotal = "total"
	PeriodDay   = "day"
	PeriodHour  = "hour"
)

type ViolationCounter interface {
	// Increment bumps the progressive violation count for an identity, in
	// every period bucket.
	Increment(ctx context.Context, userID string) error
	Count(ctx context.Context, userID, period string) (int, error)

	// NoteSource records the network address a violation arrived from.
	NoteSource(ctx context.Context, userID, ipAddress string) error
	// DistinctSources estimates how many unique addresses an identity has
	// violated from within the period.
	DistinctSources(ctx context.Context, userID, period string) (int, error)
}

func periodBucket(userID, period string) string {
	switch period {
	case PeriodTotal:
		return userID
	case PeriodDay:
		t := time.Now().UTC().Format(time.DateOnly)
		return fmt.Sprintf("%s/%s", userID, t)
	case PeriodHour:
		t := time.Now().UTC().Format(time.RFC3339)[0:13]
		return fmt.Sprintf("%s/%s", userID, t)
	default:
		slog.Warn("unhandled counter period", "period", period)
		return userID
	}
}
