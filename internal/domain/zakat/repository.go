package zakat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zakatledger/backend/internal/domain/shared"
)

// NisabYearRecordRepository persists Hawl records and their audit trails.
type NisabYearRecordRepository interface {
	shared.OwnerRepository[NisabYearRecord]

	// FindTrackingByOwner returns the owner's open record (DRAFT or
	// ACTIVE), or ErrNotFound when the owner has no cycle in progress.
	FindTrackingByOwner(ctx context.Context, ownerID uuid.UUID) (*NisabYearRecord, error)

	// FindNonTerminalByOwner returns the owner's record in DRAFT, ACTIVE
	// or INTERRUPTED, or ErrNotFound. At most one such record exists per
	// owner; an interrupted record still occupies the slot until deleted.
	FindNonTerminalByOwner(ctx context.Context, ownerID uuid.UUID) (*NisabYearRecord, error)

	// FindDueForEvaluation returns tracking records across all owners
	// needing a time-based check: the Hawl due date has been reached, or
	// a below-threshold dip is waiting on the grace clock. Used by the
	// periodic sweep.
	FindDueForEvaluation(ctx context.Context, asOf time.Time, limit int) ([]NisabYearRecord, error)

	// ListByOwner returns the owner's records newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[NisabYearRecord], error)
}
