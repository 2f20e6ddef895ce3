package zakat

import (
	"time"

	"github.com/google/uuid"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Event type names for subscription.
const (
	EventTypeHawlStarted     = "HawlStarted"
	EventTypeHawlInterrupted = "HawlInterrupted"
	EventTypeRecordFinalized = "RecordFinalized"
	EventTypeRecordUnlocked  = "RecordUnlocked"
	EventTypeRecordRelocked  = "RecordRelocked"
)

// HawlStartedEvent is raised when wealth first crosses the threshold and a
// new tracking record opens.
type HawlStartedEvent struct {
	shared.BaseDomainEvent
	RecordID       uuid.UUID         `json:"record_id"`
	MethodologyID  methodology.ID    `json:"methodology_id"`
	ThresholdValue valueobject.Money `json:"threshold_value"`
	HawlStartAt    time.Time         `json:"hawl_start_at"`
	HawlDueAt      time.Time         `json:"hawl_due_at"`
}

// EventType returns the event type name
func (e *HawlStartedEvent) EventType() string {
	return EventTypeHawlStarted
}

// NewHawlStartedEvent creates a new HawlStartedEvent
func NewHawlStartedEvent(r *NisabYearRecord) *HawlStartedEvent {
	return &HawlStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeHawlStarted, "NisabYearRecord", r.ID, r.OwnerID),
		RecordID:        r.ID,
		MethodologyID:   r.MethodologyID,
		ThresholdValue:  r.Threshold.ThresholdValue,
		HawlStartAt:     r.HawlStartAt,
		HawlDueAt:       r.HawlDueAt,
	}
}

// HawlInterruptedEvent is raised when wealth stays below the threshold past
// the grace period and the cycle is voided.
type HawlInterruptedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID `json:"record_id"`
	InterruptedAt time.Time `json:"interrupted_at"`
}

// EventType returns the event type name
func (e *HawlInterruptedEvent) EventType() string {
	return EventTypeHawlInterrupted
}

// NewHawlInterruptedEvent creates a new HawlInterruptedEvent
func NewHawlInterruptedEvent(r *NisabYearRecord) *HawlInterruptedEvent {
	interruptedAt := time.Now()
	if r.InterruptedAt != nil {
		interruptedAt = *r.InterruptedAt
	}
	return &HawlInterruptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeHawlInterrupted, "NisabYearRecord", r.ID, r.OwnerID),
		RecordID:        r.ID,
		InterruptedAt:   interruptedAt,
	}
}

// RecordFinalizedEvent is raised when a completed Hawl is locked in.
type RecordFinalizedEvent struct {
	shared.BaseDomainEvent
	RecordID    uuid.UUID         `json:"record_id"`
	NetWealth   valueobject.Money `json:"net_wealth"`
	ZakatAmount valueobject.Money `json:"zakat_amount"`
	FinalizedAt time.Time         `json:"finalized_at"`
}

// EventType returns the event type name
func (e *RecordFinalizedEvent) EventType() string {
	return EventTypeRecordFinalized
}

// NewRecordFinalizedEvent creates a new RecordFinalizedEvent
func NewRecordFinalizedEvent(r *NisabYearRecord) *RecordFinalizedEvent {
	finalizedAt := time.Now()
	if r.FinalizedAt != nil {
		finalizedAt = *r.FinalizedAt
	}
	return &RecordFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordFinalized, "NisabYearRecord", r.ID, r.OwnerID),
		RecordID:        r.ID,
		NetWealth:       r.Obligation.NetWealth,
		ZakatAmount:     r.Obligation.ZakatAmount,
		FinalizedAt:     finalizedAt,
	}
}

// RecordUnlockedEvent is raised when a finalized record is opened for
// correction.
type RecordUnlockedEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID `json:"record_id"`
	Reason   string    `json:"reason"`
}

// EventType returns the event type name
func (e *RecordUnlockedEvent) EventType() string {
	return EventTypeRecordUnlocked
}

// NewRecordUnlockedEvent creates a new RecordUnlockedEvent
func NewRecordUnlockedEvent(r *NisabYearRecord, reason string) *RecordUnlockedEvent {
	return &RecordUnlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordUnlocked, "NisabYearRecord", r.ID, r.OwnerID),
		RecordID:        r.ID,
		Reason:          reason,
	}
}

// RecordRelockedEvent is raised when an unlocked record is finalized again.
type RecordRelockedEvent struct {
	shared.BaseDomainEvent
	RecordID    uuid.UUID         `json:"record_id"`
	ZakatAmount valueobject.Money `json:"zakat_amount"`
}

// EventType returns the event type name
func (e *RecordRelockedEvent) EventType() string {
	return EventTypeRecordRelocked
}

// NewRecordRelockedEvent creates a new RecordRelockedEvent
func NewRecordRelockedEvent(r *NisabYearRecord) *RecordRelockedEvent {
	return &RecordRelockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordRelocked, "NisabYearRecord", r.ID, r.OwnerID),
		RecordID:        r.ID,
		ZakatAmount:     r.Obligation.ZakatAmount,
	}
}
