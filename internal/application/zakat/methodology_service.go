package zakat

import (
	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/methodology"
)

// MethodologyService exposes the fixed methodology catalog.
type MethodologyService struct{}

// NewMethodologyService creates a new MethodologyService
func NewMethodologyService() *MethodologyService {
	return &MethodologyService{}
}

// MethodologyResponse represents a methodology in API responses
type MethodologyResponse struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	NisabBasis             string          `json:"nisab_basis"`
	BusinessAssetTreatment string          `json:"business_asset_treatment"`
	DebtDeductionPolicy    string          `json:"debt_deduction_policy"`
	StandardRate           decimal.Decimal `json:"standard_rate"`
	RequiresParameters     bool            `json:"requires_parameters"`
}

// List returns every methodology in catalog order.
func (s *MethodologyService) List() []MethodologyResponse {
	all := methodology.All()
	out := make([]MethodologyResponse, 0, len(all))
	for _, m := range all {
		out = append(out, toMethodologyResponse(m))
	}
	return out
}

// Get returns one methodology by identifier.
func (s *MethodologyService) Get(id string) (*MethodologyResponse, error) {
	m, err := methodology.Get(methodology.ID(id))
	if err != nil {
		return nil, err
	}
	resp := toMethodologyResponse(m)
	return &resp, nil
}

func toMethodologyResponse(m methodology.Methodology) MethodologyResponse {
	return MethodologyResponse{
		ID:                     string(m.ID),
		Name:                   m.Name,
		NisabBasis:             string(m.NisabBasis),
		BusinessAssetTreatment: string(m.BusinessAssetTreatment),
		DebtDeductionPolicy:    string(m.DebtDeductionPolicy),
		StandardRate:           m.StandardRate,
		RequiresParameters:     m.RequiresParameters(),
	}
}
