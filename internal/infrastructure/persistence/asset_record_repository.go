package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zakatledger/backend/internal/domain/asset"
)

// GormAssetRecordRepository implements asset.RecordRepository using GORM
type GormAssetRecordRepository struct {
	db *gorm.DB
}

// NewGormAssetRecordRepository creates a new GormAssetRecordRepository
func NewGormAssetRecordRepository(db *gorm.DB) *GormAssetRecordRepository {
	return &GormAssetRecordRepository{db: db}
}

// FindAllForOwner returns every asset record held by the owner
func (r *GormAssetRecordRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.Record, error) {
	var records []asset.Record
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GormLiabilityRepository implements asset.LiabilityRepository using GORM
type GormLiabilityRepository struct {
	db *gorm.DB
}

// NewGormLiabilityRepository creates a new GormLiabilityRepository
func NewGormLiabilityRepository(db *gorm.DB) *GormLiabilityRepository {
	return &GormLiabilityRepository{db: db}
}

// FindAllForOwner returns every liability record held by the owner
func (r *GormLiabilityRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]asset.LiabilityRecord, error) {
	var records []asset.LiabilityRecord
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
