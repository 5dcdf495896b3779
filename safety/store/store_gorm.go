package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store backed by a gorm database (sqlite or postgresql; see
// util/cliutil.SetupDatabase).
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	for _, model := range []any{&ViolationRecord{}, &FlaggedAccount{}, &EmergencyEvent{}} {
		if err := db.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("migrating safety tables: %w", err)
		}
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) RecordViolation(ctx context.Context, v *ViolationRecord) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *GormStore) ListViolations(ctx context.Context, userID string, limit int) ([]ViolationRecord, error) {
	q := s.db.WithContext(ctx).Model(&ViolationRecord{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []ViolationRecord
	if err := q.Order("id desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) UpsertFlaggedAccount(ctx context.Context, acct *FlaggedAccount) error {
	db := s.db.WithContext(ctx)

	var existing FlaggedAccount
	err := db.Where("user_id = ?", acct.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Create(acct).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// lost an insert race; escalate the row the winner created.
		// Last-writer-wins on the mutable fields is fine: concurrent
		// critical hits converge on BANNED through mergeEscalation.
		if err := db.Where("user_id = ?", acct.UserID).First(&existing).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	mergeEscalation(&existing, acct)
	// The status guard makes this a no-op if another writer banned the row
	// between our read and this update; a ban is never overwritten.
	return db.Model(&FlaggedAccount{}).Where("id = ? AND status <> ?", existing.ID, StatusBanned).Updates(map[string]any{
		"ip_address": existing.IPAddress,
		"reason":     existing.Reason,
		"severity":   existing.Severity,
		"status":     existing.Status,
		"flagged_at": existing.FlaggedAt,
		"banned_at":  existing.BannedAt,
	}).Error
}

func (s *GormStore) GetFlaggedAccount(ctx context.Context, userID string) (*FlaggedAccount, error) {
	var acct FlaggedAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *GormStore) ListFlaggedAccounts(ctx context.Context, limit int) ([]FlaggedAccount, error) {
	var out []FlaggedAccount
	if err := s.db.WithContext(ctx).Order("flagged_at desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) RecordEmergency(ctx context.Context, evt *EmergencyEvent) error {
	return s.db.WithContext(ctx).Create(evt).Error
}

func (s *GormStore) ListEmergencyEvents(ctx context.Context, limit int) ([]EmergencyEvent, error) {
	var out []EmergencyEvent
	if err := s.db.WithContext(ctx).Order("id desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) SetEmergencyNotified(ctx context.Context, id uint, contactNotified, authoritiesContacted bool) error {
	return s.db.WithContext(ctx).Model(&EmergencyEvent{}).Where("id = ?", id).Updates(map[string]any{
		"emergency_contact_notified": contactNotified,
		"authorities_contacted":      authoritiesContacted,
	}).Error
}
