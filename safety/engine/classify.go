package engine

import (
	"context"
	"strings"
	"time"

	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/store"
)

// Outcome of a single content check. A policy violation is an expected,
// frequent result, not an error: callers branch on IsSafe and must render
// Reason to the end user when it is set.
type ClassificationResult struct {
	IsSafe   bool             `json:"is_safe"`
	Category catalog.Category `json:"category,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

const contentSampleMaxLen = 200

var refusalMessages = map[catalog.Category]string{
	catalog.CategoryCSAM:     "This content violates child safety policies. Your account has been flagged.",
	catalog.CategoryViolence: "I can't help with content involving violence or harm.",
	catalog.CategoryNSFW:     "I don't engage with NSFW or pornographic content.",
	catalog.CategoryIllegal:  "I can discuss topics educationally, but I can't provide instructions for illegal activities.",
}

var ledgerReasons = map[catalog.Category]string{
	catalog.CategoryCSAM:     "Child safety violation detected",
	catalog.CategoryViolence: "Violence/abuse content detected",
	catalog.CategoryNSFW:     "NSFW content detected",
	catalog.CategoryIllegal:  "Illegal activity instruction request",
}

// CheckContent classifies text against the rule catalog in fixed category
// priority order, short-circuiting at the first hit. On a violation it
// appends to the ledger and escalates the account; the verdict is computed
// first and is authoritative, so failures during those writes are logged
// and never flip the result. Empty input is always safe.
func (eng *Engine) CheckContent(ctx context.Context, text, userID, ipAddress string) (res *ClassificationResult) {
	// recover panics from rule evaluation, similar to an HTTP server
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("content check exception", "err", r, "user", userID)
			res = &ClassificationResult{IsSafe: true}
		}
	}()

	start := time.Now()
	defer func() {
		contentCheckDuration.Observe(time.Since(start).Seconds())
	}()

	if strings.TrimSpace(text) == "" {
		contentCheckCount.WithLabelValues("none", "safe").Inc()
		return &ClassificationResult{IsSafe: true}
	}

	lower := strings.ToLower(text)
	cat, hit := eng.Catalog.MatchContent(lower)
	if !hit {
		contentCheckCount.WithLabelValues("none", "safe").Inc()
		return &ClassificationResult{IsSafe: true}
	}

	if cat == catalog.CategoryIllegal && eng.isEducationalQuestion(lower) {
		contentCheckCount.WithLabelValues(string(cat), "safe").Inc()
		return &ClassificationResult{IsSafe: true}
	}

	res = &ClassificationResult{
		IsSafe:   false,
		Category: cat,
		Reason:   refusalMessages[cat],
	}
	contentCheckCount.WithLabelValues(string(cat), "blocked").Inc()

	sample := text
	// truncate on rune boundaries so the persisted sample stays valid UTF-8
	if runes := []rune(sample); len(runes) > contentSampleMaxLen {
		sample = string(runes[:contentSampleMaxLen])
	}
	action := "BLOCKED"
	if cat.InstantBan() {
		action = "BLOCKED_AND_FLAGGED"
	}
	rec := &store.ViolationRecord{
		UserID:        userID,
		IPAddress:     ipAddress,
		Category:      string(cat),
		Severity:      string(cat.Severity()),
		ContentSample: sample,
		Reason:        ledgerReasons[cat],
		ActionTaken:   action,
		CreatedAt:     time.Now().UTC(),
	}
	if err := eng.Store.RecordViolation(ctx, rec); err != nil {
		// degraded observability only; the verdict stands
		eng.Logger.Error("persisting violation record", "err", err, "user", userID, "category", cat)
	}

	eng.escalateAccount(ctx, userID, ipAddress, cat)

	return res
}

// The educational-language exception: an ILLEGAL match is suppressed when
// the text carries an instruction-seeking phrase together with an inquiry
// marker. Without an instruction phrase the exception is not evaluated and
// the match stands.
func (eng *Engine) isEducationalQuestion(lower string) bool {
	return eng.Catalog.HasInstructionPhrase(lower) && eng.Catalog.HasEducationalMarker(lower)
}
