package zakat

import (
	"time"

	"github.com/google/uuid"
	"github.com/zakatledger/backend/internal/domain/shared"
)

// AuditAction identifies what happened to a finalized record.
type AuditAction string

const (
	AuditUnlock AuditAction = "UNLOCK"
	AuditEdit   AuditAction = "EDIT"
	AuditRelock AuditAction = "RELOCK"
)

// MinUnlockReasonLength is the minimum length, after trimming, of an
// unlock justification.
const MinUnlockReasonLength = 10

// AuditEntry is one line of the correction trail on a finalized record.
// Entries are append-only.
type AuditEntry struct {
	shared.BaseEntity
	RecordID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Action      AuditAction `gorm:"type:varchar(10);not null"`
	Reason      string      `gorm:"type:text"`
	Detail      string      `gorm:"type:text"`
	PerformedAt time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "record_audit_entries"
}

func newAuditEntry(recordID, ownerID uuid.UUID, action AuditAction, reason, detail string, at time.Time) AuditEntry {
	return AuditEntry{
		BaseEntity:  shared.NewBaseEntity(),
		RecordID:    recordID,
		OwnerID:     ownerID,
		Action:      action,
		Reason:      reason,
		Detail:      detail,
		PerformedAt: at,
	}
}
