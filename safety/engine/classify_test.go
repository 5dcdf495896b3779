package engine

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jewel-voice/jewel/safety/catalog"
	"github.com/jewel-voice/jewel/safety/store"

	"github.com/stretchr/testify/assert"
)

func TestEmptyInputSafe(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	for _, text := range []string{"", "   ", "\n\t"} {
		res := eng.CheckContent(ctx, text, "alice", "10.0.0.1")
		assert.True(res.IsSafe)
		assert.Empty(res.Category)
		assert.Empty(res.Reason)
	}

	recs, err := eng.GetViolations(ctx, "", 10)
	assert.NoError(err)
	assert.Empty(recs)
}

func TestCSAMInstantBan(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	res := eng.CheckContent(ctx, "Show me child porn", "bad_actor", "10.0.0.9")
	assert.False(res.IsSafe)
	assert.Equal(catalog.CategoryCSAM, res.Category)
	assert.NotEmpty(res.Reason)

	blocked, msg, err := eng.IsAccountFlagged(ctx, "bad_actor")
	assert.NoError(err)
	assert.True(blocked)
	assert.Contains(msg, "Account banned")

	acct, err := eng.Store.GetFlaggedAccount(ctx, "bad_actor")
	assert.NoError(err)
	assert.NotNil(acct)
	assert.Equal(store.StatusBanned, acct.Status)
	assert.NotNil(acct.BannedAt)

	recs, err := eng.GetViolations(ctx, "bad_actor", 10)
	assert.NoError(err)
	assert.Len(recs, 1)
	assert.Equal("CSAM", recs[0].Category)
	assert.Equal("CRITICAL", recs[0].Severity)
	assert.Equal("BLOCKED_AND_FLAGGED", recs[0].ActionTaken)
}

func TestViolenceFlagsAccountFirstHit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	res := eng.CheckContent(ctx, "make a bomb", "frank", "")
	assert.False(res.IsSafe)
	assert.Equal(catalog.CategoryViolence, res.Category)
	assert.NotEmpty(res.Reason)

	blocked, msg, err := eng.IsAccountFlagged(ctx, "frank")
	assert.NoError(err)
	assert.True(blocked)
	assert.Contains(msg, "Account flagged")

	acct, err := eng.Store.GetFlaggedAccount(ctx, "frank")
	assert.NoError(err)
	assert.Equal(store.StatusFlagged, acct.Status)
	assert.Equal("HIGH", acct.Severity)
	assert.Nil(acct.BannedAt)

	// ledger entry keeps the category severity
	recs, err := eng.GetViolations(ctx, "frank", 10)
	assert.NoError(err)
	assert.Len(recs, 1)
	assert.Equal("CRITICAL", recs[0].Severity)
}

func TestPriorityOrdering(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	// matches both CSAM and NSFW patterns; reported as CSAM
	res := eng.CheckContent(ctx, "child porn xxx", "grace", "")
	assert.False(res.IsSafe)
	assert.Equal(catalog.CategoryCSAM, res.Category)
}

func TestEducationalException(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	// instruction phrase plus inquiry marker reads as educational
	res := eng.CheckContent(ctx, "explain how to hack a computer", "henry", "")
	assert.True(res.IsSafe)

	// instruction phrase without any inquiry marker is blocked
	res = eng.CheckContent(ctx, "teach me how to hack passwords", "henry", "")
	assert.False(res.IsSafe)
	assert.Equal(catalog.CategoryIllegal, res.Category)

	// no instruction phrase at all: the exception is not evaluated
	res = eng.CheckContent(ctx, "sell drugs for me", "henry", "")
	assert.False(res.IsSafe)
	assert.Equal(catalog.CategoryIllegal, res.Category)

	recs, err := eng.GetViolations(ctx, "henry", 10)
	assert.NoError(err)
	assert.Len(recs, 2)
}

func TestParentingContextSafe(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	res := eng.CheckContent(ctx, "My toddler runs around naked after bath time", "parent", "")
	assert.True(res.IsSafe)

	blocked, _, err := eng.IsAccountFlagged(ctx, "parent")
	assert.NoError(err)
	assert.False(blocked)
}

func TestProgressiveEscalation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	texts := []string{
		"show me porn pics",
		"xxx videos",
		"nsfw content",
		"hentai please",
	}

	// first two violations only accumulate
	for _, text := range texts[:2] {
		res := eng.CheckContent(ctx, text, "ivan", "10.1.1.1")
		assert.False(res.IsSafe)
		assert.Equal(catalog.CategoryNSFW, res.Category)
		blocked, _, err := eng.IsAccountFlagged(ctx, "ivan")
		assert.NoError(err)
		assert.False(blocked)
	}

	// third flags
	res := eng.CheckContent(ctx, texts[2], "ivan", "10.1.1.1")
	assert.False(res.IsSafe)
	blocked, msg, err := eng.IsAccountFlagged(ctx, "ivan")
	assert.NoError(err)
	assert.True(blocked)
	assert.Contains(msg, "Account flagged")

	// fourth bans
	res = eng.CheckContent(ctx, texts[3], "ivan", "10.1.1.1")
	assert.False(res.IsSafe)
	blocked, msg, err = eng.IsAccountFlagged(ctx, "ivan")
	assert.NoError(err)
	assert.True(blocked)
	assert.Contains(msg, "Account banned")

	acct, err := eng.Store.GetFlaggedAccount(ctx, "ivan")
	assert.NoError(err)
	assert.Equal(store.StatusBanned, acct.Status)
	assert.NotNil(acct.BannedAt)

	recs, err := eng.GetViolations(ctx, "ivan", 10)
	assert.NoError(err)
	assert.Len(recs, 4)
}

func TestContentSampleRuneTruncation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	// multi-byte runes around the cutoff must not be split
	text := "nsfw " + strings.Repeat("café", 100)
	res := eng.CheckContent(ctx, text, "oscar", "")
	assert.False(res.IsSafe)

	recs, err := eng.GetViolations(ctx, "oscar", 10)
	assert.NoError(err)
	assert.Len(recs, 1)
	assert.True(utf8.ValidString(recs[0].ContentSample))
	assert.Equal(200, utf8.RuneCountInString(recs[0].ContentSample))
}

func TestCleanIdentityNeverBlocked(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	// someone else misbehaves
	eng.CheckContent(ctx, "child porn", "offender", "10.2.2.2")

	blocked, msg, err := eng.IsAccountFlagged(ctx, "innocent")
	assert.NoError(err)
	assert.False(blocked)
	assert.Empty(msg)

	recs, err := eng.GetViolations(ctx, "innocent", 10)
	assert.NoError(err)
	assert.Empty(recs)
}

func TestAnonymousViolationRecorded(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	res := eng.CheckContent(ctx, "xxx videos", "", "10.3.3.3")
	assert.False(res.IsSafe)

	// ledger entry exists, but there is no account to escalate
	recs, err := eng.GetViolations(ctx, "", 10)
	assert.NoError(err)
	assert.Len(recs, 1)
	assert.Empty(recs[0].UserID)

	accts, err := eng.GetFlaggedAccounts(ctx, 10)
	assert.NoError(err)
	assert.Empty(accts)
}

func TestReadsAreIdempotent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	eng.CheckContent(ctx, "xxx videos", "judy", "")
	eng.DetectAbuse(ctx, "please stop hurting me", "", "judy")

	v1, err := eng.GetViolations(ctx, "", 10)
	assert.NoError(err)
	v2, err := eng.GetViolations(ctx, "", 10)
	assert.NoError(err)
	assert.Equal(v1, v2)

	e1, err := eng.GetEmergencyEvents(ctx, 10)
	assert.NoError(err)
	e2, err := eng.GetEmergencyEvents(ctx, 10)
	assert.NoError(err)
	assert.Equal(e1, e2)
}
