// Persisted moderation records: the append-only violation ledger, the
// per-identity flagged-account row, and append-only emergency events.
//
// Two implementations are provided: MemStore for tests and small
// deployments, and GormStore backed by sqlite or postgresql.
package store

import (
	"context"
	"time"
)

type AccountStatus string

const (
	StatusFlagged AccountStatus = "FLAGGED"
	StatusBanned  AccountStatus = "BANNED"
)

type EventType string

const (
	EventDistressDetected EventType = "DISTRESS_DETECTED"
	EventViolenceDetected EventType = "VIOLENCE_DETECTED"
)

// One ledger entry per negative classification. Never updated or deleted.
type ViolationRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        string    `gorm:"index" json:"user_id"`
	IPAddress     string    `json:"ip_address"`
	Category      string    `json:"category"`
	Severity      string    `json:"severity"`
	ContentSample string    `json:"content_sample"`
	Reason        string    `json:"reason"`
	ActionTaken   string    `json:"action_taken"`
	CreatedAt     time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (ViolationRecord) TableName() string {
	return "safety_violations"
}

// Mutable escalation state, one row per identity.
//
// Invariant: Status == BANNED implies BannedAt is set; Status == FLAGGED
// implies BannedAt is nil. Status never moves backwards.
type FlaggedAccount struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	UserID    string        `gorm:"uniqueIndex" json:"user_id"`
	IPAddress string        `json:"ip_address"`
	Reason    string        `json:"reason"`
	Severity  string        `json:"severity"`
	Status    AccountStatus `json:"status"`
	FlaggedAt time.Time     `json:"flagged_at"`
	BannedAt  *time.Time    `json:"banned_at"`
}

func (FlaggedAccount) TableName() string {
	return "flagged_accounts"
}

// One row per emergency detection. The notified flags are written false at
// creation and only ever set by the external notifier, via
// SetEmergencyNotified.
type EmergencyEvent struct {
	ID                       uint      `gorm:"primarykey" json:"id"`
	UserID                   string    `gorm:"index" json:"user_id"`
	EventType                EventType `json:"event_type"`
	Description              string    `json:"description"`
	AudioTranscript          string    `json:"audio_transcript"`
	VideoContext             string    `json:"video_context"`
	Location                 string    `json:"location"`
	EmergencyContactNotified bool      `json:"emergency_contact_notified"`
	AuthoritiesContacted     bool      `json:"authorities_contacted"`
	CreatedAt                time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (EmergencyEvent) TableName() string {
	return "emergency_events"
}

type Store interface {
	// RecordViolation appends to the ledger. The write must complete
	// before the call returns; escalation decisions for later calls
	// depend on it being visible.
	RecordViolation(ctx context.Context, v *ViolationRecord) error
	// ListViolations returns records newest first. Empty userID means all
	// identities.
	ListViolations(ctx context.Context, userID string, limit int) ([]ViolationRecord, error)

	// UpsertFlaggedAccount creates or escalates the row for
	// acct.UserID. Writes for one identity are serialized; a BANNED row
	// is never downgraded.
	UpsertFlaggedAccount(ctx context.Context, acct *FlaggedAccount) error
	// GetFlaggedAccount returns nil (no error) when the identity has no
	// row.
	GetFlaggedAccount(ctx context.Context, userID string) (*FlaggedAccount, error)
	ListFlaggedAccounts(ctx context.Context, limit int) ([]FlaggedAccount, error)

	RecordEmergency(ctx context.Context, evt *EmergencyEvent) error
	ListEmergencyEvents(ctx context.Context, limit int) ([]EmergencyEvent, error)
	// SetEmergencyNotified is reserved for the notifier collaborator.
	SetEmergencyNotified(ctx context.Context, id uint, contactNotified, authoritiesContacted bool) error
}

// Applies an escalation onto an existing row, preserving the no-downgrade
// invariant. Shared by the store implementations.
func mergeEscalation(existing, next *FlaggedAccount) {
	if existing.Status == StatusBanned {
		// already terminal; concurrent critical hits converge here
		return
	}
	existing.IPAddress = next.IPAddress
	existing.Reason = next.Reason
	existing.Severity = next.Severity
	existing.FlaggedAt = next.FlaggedAt
	if next.Status == StatusBanned {
		existing.Status = StatusBanned
		existing.BannedAt = next.BannedAt
	}
}
