package asset

import (
	"context"

	"github.com/google/uuid"
)

// RecordRepository reads the owner's current asset records. The engine never
// mutates assets; the write path belongs to the asset-management subsystem.
type RecordRepository interface {
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]Record, error)
}

// LiabilityRepository reads the owner's current liability records.
type LiabilityRepository interface {
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]LiabilityRecord, error)
}
