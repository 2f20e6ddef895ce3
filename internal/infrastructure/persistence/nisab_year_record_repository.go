package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/zakat"
)

var (
	trackingStatuses    = []zakat.Status{zakat.StatusDraft, zakat.StatusActive}
	nonTerminalStatuses = []zakat.Status{zakat.StatusDraft, zakat.StatusActive, zakat.StatusInterrupted}
)

// GormNisabYearRecordRepository implements NisabYearRecordRepository using GORM
type GormNisabYearRecordRepository struct {
	db *gorm.DB
}

// NewGormNisabYearRecordRepository creates a new GormNisabYearRecordRepository
func NewGormNisabYearRecordRepository(db *gorm.DB) *GormNisabYearRecordRepository {
	return &GormNisabYearRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormNisabYearRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*zakat.NisabYearRecord, error) {
	var record zakat.NisabYearRecord
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrder).
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForOwner finds a record by ID scoped to an owner
func (r *GormNisabYearRecordRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*zakat.NisabYearRecord, error) {
	var record zakat.NisabYearRecord
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrder).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAllForOwner finds all records for an owner
func (r *GormNisabYearRecordRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]zakat.NisabYearRecord, error) {
	var records []zakat.NisabYearRecord
	sortField := ValidateSortField(filter.OrderBy, NisabYearRecordSortFields, "hawl_start_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrder).
		Where("owner_id = ?", ownerID).
		Order(sortField + " " + sortOrder)
	query = applyPagination(query, filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindTrackingByOwner returns the owner's open record, if any. The schema's
// partial unique index guarantees at most one.
func (r *GormNisabYearRecordRepository) FindTrackingByOwner(ctx context.Context, ownerID uuid.UUID) (*zakat.NisabYearRecord, error) {
	var record zakat.NisabYearRecord
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrder).
		Where("owner_id = ? AND status IN ?", ownerID, trackingStatuses).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindNonTerminalByOwner returns the owner's record still occupying the
// single-cycle slot, interrupted ones included.
func (r *GormNisabYearRecordRepository) FindNonTerminalByOwner(ctx context.Context, ownerID uuid.UUID) (*zakat.NisabYearRecord, error) {
	var record zakat.NisabYearRecord
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrder).
		Where("owner_id = ? AND status IN ?", ownerID, nonTerminalStatuses).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindDueForEvaluation returns open records needing a time-based check.
func (r *GormNisabYearRecordRepository) FindDueForEvaluation(ctx context.Context, asOf time.Time, limit int) ([]zakat.NisabYearRecord, error) {
	var records []zakat.NisabYearRecord
	if err := r.db.WithContext(ctx).
		Where("status IN ?", trackingStatuses).
		Where("below_threshold_since IS NOT NULL OR hawl_due_at <= ?", asOf).
		Order("hawl_due_at ASC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByOwner returns the owner's records newest first with pagination
func (r *GormNisabYearRecordRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[zakat.NisabYearRecord], error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&zakat.NisabYearRecord{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	records, err := r.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	page, pageSize := normalizeFilter(filter)
	result := shared.NewPaginated(records, total, page, pageSize)
	return &result, nil
}

// Save persists the record together with any new audit entries, atomically.
// The record row and its trail never diverge: a failed audit insert rolls
// back the status change.
func (r *GormNisabYearRecordRepository) Save(ctx context.Context, record *zakat.NisabYearRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AuditTrail").Save(record).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.NewDomainError(shared.ErrCodeActiveHawlAlreadyExists,
					"An open cycle already exists for this owner")
			}
			return err
		}
		for i := range record.AuditTrail {
			entry := &record.AuditTrail[i]
			if err := tx.Where("id = ?", entry.ID).FirstOrCreate(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a record and its audit trail
func (r *GormNisabYearRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", id).Delete(&zakat.AuditEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&zakat.NisabYearRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func auditOrder(db *gorm.DB) *gorm.DB {
	return db.Order("performed_at ASC")
}

func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page, pageSize := normalizeFilter(filter)
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

func normalizeFilter(filter shared.Filter) (int, int) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Raw driver error in case error translation is not enabled
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}
