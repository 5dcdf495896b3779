// Content-safety and account-moderation engine for the Jewel companion.
//
// This package tree classifies user-submitted text against categorized
// rule sets, escalates repeat or severe offenders through a persisted
// account-status state machine (CLEAN -> FLAGGED -> BANNED), detects
// real-time distress signals in transcribed audio and video context, and
// keeps an auditable ledger of every decision. Classification is
// deterministic pattern matching over a curated catalog; there is no
// learned model here.
//
// The conversational layer must consult IsAccountFlagged before invoking
// the classifier for an identity-bound input and short-circuit when
// blocked. See `safety/engine` for the runtime and `cmd/jewelmod` for the
// admin tool built on it.
package safety
