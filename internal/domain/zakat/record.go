package zakat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// HawlDays is the length of one lunar year in days.
const HawlDays = 354

// HawlDuration is the wall-clock span of a Hawl.
const HawlDuration = HawlDays * 24 * time.Hour

// InterruptionGrace is how long wealth may dip below the threshold before
// the cycle is voided. Intraday fluctuations inside this window are ignored.
const InterruptionGrace = 24 * time.Hour

// NisabYearRecord tracks one owner's Hawl from the day wealth first crosses
// the nisab threshold until finalization. The threshold is fixed at creation
// and never follows later price movements.
type NisabYearRecord struct {
	shared.OwnerAggregateRoot
	MethodologyID       methodology.ID        `gorm:"type:varchar(20);not null"`
	Status              Status                `gorm:"type:varchar(15);not null;index"`
	Threshold           NisabThreshold        `gorm:"embedded;embeddedPrefix:threshold_"`
	HawlStartAt         time.Time             `gorm:"not null"`
	HawlDueAt           time.Time             `gorm:"not null"`
	IslamicYear         int                   `gorm:"not null;index"`
	HawlStartHijri      string                `gorm:"type:varchar(12)"`
	BelowThresholdSince *time.Time
	InterruptedAt       *time.Time
	FinalizedAt         *time.Time
	Obligation          Obligation            `gorm:"embedded"`
	Snapshot            []asset.ValuatedAsset `gorm:"serializer:json"`
	AuditTrail          []AuditEntry          `gorm:"foreignKey:RecordID"`
}

// TableName returns the table name for GORM
func (NisabYearRecord) TableName() string {
	return "nisab_year_records"
}

// StartHawl opens a new tracking record. The caller must have verified that
// no other tracking record exists for the owner; net wealth must meet the
// threshold or there is no Hawl to start.
func StartHawl(
	ownerID uuid.UUID,
	m methodology.Methodology,
	threshold NisabThreshold,
	obligation Obligation,
	snapshot []asset.ValuatedAsset,
	now time.Time,
) (*NisabYearRecord, error) {
	if !obligation.IsObligatory {
		return nil, shared.NewDomainError("THRESHOLD_NOT_MET",
			"Net wealth is below the nisab threshold; no Hawl starts")
	}

	hijri := valueobject.HijriFromTime(now)
	r := &NisabYearRecord{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		MethodologyID:      m.ID,
		Status:             StatusDraft,
		Threshold:          threshold,
		HawlStartAt:        now,
		HawlDueAt:          now.Add(HawlDuration),
		IslamicYear:        hijri.Year,
		HawlStartHijri:     hijri.Compact(),
		Obligation:         obligation,
		Snapshot:           snapshot,
	}
	r.AddDomainEvent(NewHawlStartedEvent(r))
	return r, nil
}

// Confirm marks a system-created draft as accepted by the owner.
func (r *NisabYearRecord) Confirm(now time.Time) error {
	if r.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only a draft record can be confirmed, current status is %s", r.Status))
	}
	r.Status = StatusActive
	r.Touch(now)
	return nil
}

// Reevaluate refreshes the running figures against the locked threshold.
// A dip below the threshold starts the grace clock; a dip that outlives the
// grace period voids the cycle. The threshold itself never changes here.
func (r *NisabYearRecord) Reevaluate(obligation Obligation, snapshot []asset.ValuatedAsset, now time.Time) error {
	switch r.Status {
	case StatusFinalized, StatusUnlocked:
		return shared.NewDomainError(shared.ErrCodeImmutableRecord,
			"A finalized record does not track live wealth")
	case StatusInterrupted:
		return shared.NewDomainError("INVALID_STATE",
			"An interrupted record cannot be re-evaluated; start a new cycle")
	}

	r.Obligation = obligation
	r.Snapshot = snapshot
	r.Touch(now)

	if obligation.IsObligatory {
		r.BelowThresholdSince = nil
		return nil
	}

	if r.BelowThresholdSince == nil {
		since := now
		r.BelowThresholdSince = &since
		return nil
	}
	if now.Sub(*r.BelowThresholdSince) > InterruptionGrace {
		r.interrupt(now)
	}
	return nil
}

func (r *NisabYearRecord) interrupt(now time.Time) {
	r.Status = StatusInterrupted
	interruptedAt := now
	r.InterruptedAt = &interruptedAt
	r.Touch(now)
	r.AddDomainEvent(NewHawlInterruptedEvent(r))
}

// IsHawlComplete reports whether the lunar year has elapsed.
func (r *NisabYearRecord) IsHawlComplete(now time.Time) bool {
	return !now.Before(r.HawlDueAt)
}

// Finalize locks the record in at the end of a complete Hawl. The amounts
// standing at this moment become the permanent figures.
func (r *NisabYearRecord) Finalize(now time.Time) error {
	if !r.Status.IsTracking() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot finalize a record in status %s", r.Status))
	}
	if !r.IsHawlComplete(now) {
		return shared.NewDomainError(shared.ErrCodeHawlNotComplete,
			fmt.Sprintf("Hawl completes on %s", r.HawlDueAt.Format(time.RFC3339)))
	}
	r.Status = StatusFinalized
	finalizedAt := now
	r.FinalizedAt = &finalizedAt
	r.BelowThresholdSince = nil
	r.Touch(now)
	r.AddDomainEvent(NewRecordFinalizedEvent(r))
	return nil
}

// Unlock opens a finalized record for correction. The justification is
// mandatory and lands in the audit trail.
func (r *NisabYearRecord) Unlock(reason string, now time.Time) error {
	if !r.Status.IsLocked() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only a finalized record can be unlocked, current status is %s", r.Status))
	}
	reason = strings.TrimSpace(reason)
	if len(reason) < MinUnlockReasonLength {
		return shared.NewDomainError(shared.ErrCodeInvalidUnlockReason,
			fmt.Sprintf("Unlock reason must be at least %d characters", MinUnlockReasonLength))
	}
	r.Status = StatusUnlocked
	r.Touch(now)
	r.AuditTrail = append(r.AuditTrail, newAuditEntry(r.ID, r.OwnerID, AuditUnlock, reason, "", now))
	r.AddDomainEvent(NewRecordUnlockedEvent(r, reason))
	return nil
}

// AmendObligation replaces the locked figures of an unlocked record. Every
// amendment is recorded in the audit trail.
func (r *NisabYearRecord) AmendObligation(obligation Obligation, now time.Time) error {
	if r.Status != StatusUnlocked {
		return shared.NewDomainError(shared.ErrCodeImmutableRecord,
			"The record must be unlocked before its figures can change")
	}
	detail := fmt.Sprintf("zakat amount %s -> %s",
		r.Obligation.ZakatAmount.StringFixed(2), obligation.ZakatAmount.StringFixed(2))
	r.Obligation = obligation
	r.Touch(now)
	r.AuditTrail = append(r.AuditTrail, newAuditEntry(r.ID, r.OwnerID, AuditEdit, "", detail, now))
	return nil
}

// Refinalize locks an unlocked record again.
func (r *NisabYearRecord) Refinalize(now time.Time) error {
	if r.Status != StatusUnlocked {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only an unlocked record can be refinalized, current status is %s", r.Status))
	}
	r.Status = StatusFinalized
	r.Touch(now)
	r.AuditTrail = append(r.AuditTrail, newAuditEntry(r.ID, r.OwnerID, AuditRelock, "", "", now))
	r.AddDomainEvent(NewRecordRelockedEvent(r))
	return nil
}

// CanDelete reports whether the record may be removed. Finalized history,
// unlocked or not, is permanent.
func (r *NisabYearRecord) CanDelete() bool {
	return r.Status != StatusFinalized && r.Status != StatusUnlocked
}
