package asset

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Calculation modifiers. The modifier is fully determined by category and
// flags; it is never user-set directly.
var (
	ModifierRestricted = decimal.Zero                  // tax-deferred, inaccessible
	ModifierPassive    = decimal.NewFromFloat(0.3)     // passive investment proxy
	ModifierFull       = decimal.NewFromInt(1)
)

// ValuatedAsset is the derived, non-persisted result of applying category
// eligibility and calculation modifiers to a raw asset record.
type ValuatedAsset struct {
	AssetID             uuid.UUID         `json:"asset_id"`
	Label               string            `json:"label"`
	Category            Category          `json:"category"`
	RawValue            decimal.Decimal   `json:"raw_value"`
	CalculationModifier decimal.Decimal   `json:"calculation_modifier"`
	ZakatableAmount     valueobject.Money `json:"zakatable_amount"`
}

// ValuationParams carries caller-supplied parameters needed when the
// methodology's business-asset treatment is configurable.
type ValuationParams struct {
	// BusinessModifier resolves the CONFIGURABLE treatment. Must be one of
	// the legal modifiers when set.
	BusinessModifier *decimal.Decimal
}

// Valuator applies category eligibility and calculation modifiers to raw
// asset records. Stateless; safe for concurrent use.
type Valuator struct{}

// NewValuator creates a new Valuator
func NewValuator() *Valuator {
	return &Valuator{}
}

// Valuate produces the zakatable amount for a single asset under the given
// methodology. Validation failures are rejected synchronously and never
// silently coerced.
func (v *Valuator) Valuate(rec *Record, m methodology.Methodology, params ValuationParams) (ValuatedAsset, error) {
	if !rec.Category.IsEligible() {
		return ValuatedAsset{}, shared.NewDomainError(shared.ErrCodeAssetCategoryIneligible,
			fmt.Sprintf("Category %s is not zakatable", rec.Category))
	}
	if rec.IsPassiveInvestment && rec.IsRestrictedAccount {
		return ValuatedAsset{}, shared.NewDomainError(shared.ErrCodeConflictingModifierFlags,
			"An asset cannot be both a passive investment and a restricted account")
	}
	if rec.IsPassiveInvestment && !rec.Category.AllowsPassiveFlag() {
		return ValuatedAsset{}, shared.NewDomainError(shared.ErrCodeModifierNotApplicable,
			fmt.Sprintf("Passive investment flag is not applicable to category %s", rec.Category))
	}
	if rec.IsRestrictedAccount && !rec.Category.AllowsRestrictedFlag() {
		return ValuatedAsset{}, shared.NewDomainError(shared.ErrCodeModifierNotApplicable,
			fmt.Sprintf("Restricted account flag is not applicable to category %s", rec.Category))
	}

	modifier, err := v.resolveModifier(rec, m, params)
	if err != nil {
		return ValuatedAsset{}, err
	}

	zakatable := valueobject.NewMoneyUSD(rec.RawValue).Multiply(modifier).RoundCurrency()

	return ValuatedAsset{
		AssetID:             rec.ID,
		Label:               rec.Label,
		Category:            rec.Category,
		RawValue:            rec.RawValue,
		CalculationModifier: modifier,
		ZakatableAmount:     zakatable,
	}, nil
}

// ValuateAll valuates a list of records, skipping ineligible categories
// (they simply do not participate in the wealth test) but propagating every
// other validation failure.
func (v *Valuator) ValuateAll(recs []Record, m methodology.Methodology, params ValuationParams) ([]ValuatedAsset, error) {
	out := make([]ValuatedAsset, 0, len(recs))
	for i := range recs {
		if !recs[i].Category.IsEligible() {
			continue
		}
		va, err := v.Valuate(&recs[i], m, params)
		if err != nil {
			return nil, err
		}
		out = append(out, va)
	}
	return out, nil
}

func (v *Valuator) resolveModifier(rec *Record, m methodology.Methodology, params ValuationParams) (decimal.Decimal, error) {
	if rec.IsRestrictedAccount {
		return ModifierRestricted, nil
	}
	if rec.IsPassiveInvestment {
		return ModifierPassive, nil
	}
	if rec.Category.IsPartial() {
		switch m.BusinessAssetTreatment {
		case methodology.TreatmentMarketValue, methodology.TreatmentComprehensive:
			return ModifierFull, nil
		case methodology.TreatmentCategorized:
			// Only the current-asset share of a business holding counts.
			return ModifierPassive, nil
		case methodology.TreatmentConfigurable:
			if params.BusinessModifier == nil {
				return decimal.Zero, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
					"Configurable business-asset treatment requires a business modifier parameter")
			}
			if !isLegalModifier(*params.BusinessModifier) {
				return decimal.Zero, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
					fmt.Sprintf("Business modifier %s is not one of the legal modifiers", params.BusinessModifier))
			}
			return *params.BusinessModifier, nil
		}
	}
	return ModifierFull, nil
}

func isLegalModifier(d decimal.Decimal) bool {
	return d.Equal(ModifierRestricted) || d.Equal(ModifierPassive) || d.Equal(ModifierFull)
}

// TotalZakatable sums the zakatable amounts of a valuation.
func TotalZakatable(assets []ValuatedAsset) valueobject.Money {
	total := valueobject.ZeroUSD()
	for _, a := range assets {
		total = total.MustAdd(a.ZakatableAmount)
	}
	return total
}
