package zakat

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/zakat"
)

// ThresholdResponse represents a nisab threshold in API responses
type ThresholdResponse struct {
	EffectiveDate  time.Time       `json:"effective_date"`
	BasisMetal     string          `json:"basis_metal"`
	PricePerGram   decimal.Decimal `json:"price_per_gram"`
	ThresholdValue decimal.Decimal `json:"threshold_value"`
	IsStale        bool            `json:"is_stale"`
}

// ValuatedAssetResponse represents one valuated asset line
type ValuatedAssetResponse struct {
	AssetID             uuid.UUID       `json:"asset_id"`
	Label               string          `json:"label"`
	Category            string          `json:"category"`
	RawValue            decimal.Decimal `json:"raw_value"`
	CalculationModifier decimal.Decimal `json:"calculation_modifier"`
	ZakatableAmount     decimal.Decimal `json:"zakatable_amount"`
}

// ObligationResponse represents the computed obligation figures
type ObligationResponse struct {
	GrossZakatable        decimal.Decimal `json:"gross_zakatable"`
	DeductibleLiabilities decimal.Decimal `json:"deductible_liabilities"`
	NetWealth             decimal.Decimal `json:"net_wealth"`
	IsObligatory          bool            `json:"is_obligatory"`
	ZakatAmount           decimal.Decimal `json:"zakat_amount"`
}

// AuditEntryResponse represents one audit trail line
type AuditEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}

// RecordResponse represents a nisab year record in API responses
type RecordResponse struct {
	ID                  uuid.UUID               `json:"id"`
	OwnerID             uuid.UUID               `json:"owner_id"`
	MethodologyID       string                  `json:"methodology_id"`
	Status              string                  `json:"status"`
	Threshold           ThresholdResponse       `json:"threshold"`
	HawlStartAt         time.Time               `json:"hawl_start_at"`
	HawlDueAt           time.Time               `json:"hawl_due_at"`
	IslamicYear         int                     `json:"islamic_year"`
	HawlStartHijri      string                  `json:"hawl_start_hijri"`
	BelowThresholdSince *time.Time              `json:"below_threshold_since,omitempty"`
	InterruptedAt       *time.Time              `json:"interrupted_at,omitempty"`
	FinalizedAt         *time.Time              `json:"finalized_at,omitempty"`
	Obligation          ObligationResponse      `json:"obligation"`
	Snapshot            []ValuatedAssetResponse `json:"snapshot,omitempty"`
	AuditTrail          []AuditEntryResponse    `json:"audit_trail,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	Version             int                     `json:"version"`
}

// EvaluationResponse is the outcome of a live evaluation: the current
// figures plus the record they landed on, when one exists.
type EvaluationResponse struct {
	Threshold  ThresholdResponse  `json:"threshold"`
	Obligation ObligationResponse `json:"obligation"`
	Record     *RecordResponse    `json:"record,omitempty"`
}

// ToThresholdResponse converts a domain threshold to a response DTO
func ToThresholdResponse(t zakat.NisabThreshold) ThresholdResponse {
	return ThresholdResponse{
		EffectiveDate:  t.EffectiveDate,
		BasisMetal:     string(t.BasisMetal),
		PricePerGram:   t.PricePerGram.Amount(),
		ThresholdValue: t.ThresholdValue.Amount(),
		IsStale:        t.IsStale,
	}
}

// ToObligationResponse converts a domain obligation to a response DTO
func ToObligationResponse(o zakat.Obligation) ObligationResponse {
	return ObligationResponse{
		GrossZakatable:        o.GrossZakatable.Amount(),
		DeductibleLiabilities: o.DeductibleLiabilities.Amount(),
		NetWealth:             o.NetWealth.Amount(),
		IsObligatory:          o.IsObligatory,
		ZakatAmount:           o.ZakatAmount.Amount(),
	}
}

// ToRecordResponse converts a domain record to a response DTO
func ToRecordResponse(r *zakat.NisabYearRecord) RecordResponse {
	snapshot := make([]ValuatedAssetResponse, 0, len(r.Snapshot))
	for _, v := range r.Snapshot {
		snapshot = append(snapshot, toValuatedAssetResponse(v))
	}
	trail := make([]AuditEntryResponse, 0, len(r.AuditTrail))
	for _, e := range r.AuditTrail {
		trail = append(trail, AuditEntryResponse{
			ID:          e.ID,
			Action:      string(e.Action),
			Reason:      e.Reason,
			Detail:      e.Detail,
			PerformedAt: e.PerformedAt,
		})
	}
	return RecordResponse{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		MethodologyID:       string(r.MethodologyID),
		Status:              string(r.Status),
		Threshold:           ToThresholdResponse(r.Threshold),
		HawlStartAt:         r.HawlStartAt,
		HawlDueAt:           r.HawlDueAt,
		IslamicYear:         r.IslamicYear,
		HawlStartHijri:      r.HawlStartHijri,
		BelowThresholdSince: r.BelowThresholdSince,
		InterruptedAt:       r.InterruptedAt,
		FinalizedAt:         r.FinalizedAt,
		Obligation:          ToObligationResponse(r.Obligation),
		Snapshot:            snapshot,
		AuditTrail:          trail,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Version:             r.Version,
	}
}

func toValuatedAssetResponse(v asset.ValuatedAsset) ValuatedAssetResponse {
	return ValuatedAssetResponse{
		AssetID:             v.AssetID,
		Label:               v.Label,
		Category:            string(v.Category),
		RawValue:            v.RawValue,
		CalculationModifier: v.CalculationModifier,
		ZakatableAmount:     v.ZakatableAmount.Amount(),
	}
}
