package zakat

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Classical nisab masses.
var (
	NisabGoldGrams   = decimal.NewFromFloat(87.48)
	NisabSilverGrams = decimal.NewFromFloat(612.36)
)

// PriceFreshnessWindow is how old a cached quote may be before the derived
// threshold is flagged stale.
const PriceFreshnessWindow = 7 * 24 * time.Hour

// NisabThreshold is the minimum-wealth threshold derived from metal prices
// under a methodology. Once attached to a record it is locked for the life
// of that Hawl; later price movements never retroactively alter it.
type NisabThreshold struct {
	EffectiveDate  time.Time         `json:"effective_date"`
	BasisMetal     Metal             `json:"basis_metal"`
	PricePerGram   valueobject.Money `json:"price_per_gram"`
	ThresholdValue valueobject.Money `json:"threshold_value"`
	IsStale        bool              `json:"is_stale"`
}

// ThresholdParams carries caller-supplied parameters (region, prior user
// choice) needed when the methodology basis does not resolve on its own.
type ThresholdParams struct {
	PreferredBasis *Metal
}

// NisabCalculator derives thresholds from methodology and metal prices.
// Stateless; safe for concurrent use.
type NisabCalculator struct{}

// NewNisabCalculator creates a new NisabCalculator
func NewNisabCalculator() *NisabCalculator {
	return &NisabCalculator{}
}

// ComputeThreshold derives the threshold for the given methodology from the
// supplied gold and silver quotes. Staleness is a warning threaded through
// the result, never an error.
func (c *NisabCalculator) ComputeThreshold(
	m methodology.Methodology,
	gold, silver MetalPrice,
	params ThresholdParams,
	now time.Time,
) (NisabThreshold, error) {
	if !gold.PricePerUnit.IsPositive() || !silver.PricePerUnit.IsPositive() {
		return NisabThreshold{}, shared.NewDomainError("INVALID_PRICE", "Metal prices must be positive")
	}

	basis := m.NisabBasis
	if basis.RequiresSelection() {
		if params.PreferredBasis == nil {
			return NisabThreshold{}, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
				fmt.Sprintf("Nisab basis %s requires a preferred metal selection", basis))
		}
		switch *params.PreferredBasis {
		case MetalGold:
			basis = methodology.BasisGold
		case MetalSilver:
			basis = methodology.BasisSilver
		default:
			return NisabThreshold{}, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
				fmt.Sprintf("Unknown preferred metal %q", *params.PreferredBasis))
		}
	}

	goldThreshold := thresholdFor(gold, NisabGoldGrams)
	silverThreshold := thresholdFor(silver, NisabSilverGrams)

	var metal Metal
	var value valueobject.Money
	switch basis {
	case methodology.BasisGold:
		metal, value = MetalGold, goldThreshold
	case methodology.BasisSilver:
		metal, value = MetalSilver, silverThreshold
	case methodology.BasisDualMinimum:
		if lower, _ := silverThreshold.LessThan(goldThreshold); lower {
			metal, value = MetalSilver, silverThreshold
		} else {
			metal, value = MetalGold, goldThreshold
		}
	default:
		return NisabThreshold{}, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
			fmt.Sprintf("Nisab basis %s cannot be resolved", basis))
	}

	basisPrice := gold
	if metal == MetalSilver {
		basisPrice = silver
	}

	return NisabThreshold{
		EffectiveDate:  now,
		BasisMetal:     metal,
		PricePerGram:   basisPrice.PerGram().RoundCurrency(),
		ThresholdValue: value,
		IsStale:        isStale(basisPrice, now),
	}, nil
}

func thresholdFor(price MetalPrice, grams decimal.Decimal) valueobject.Money {
	return price.PerGram().Multiply(grams).RoundCurrency()
}

func isStale(price MetalPrice, now time.Time) bool {
	return price.IsFallback || price.Age(now) > PriceFreshnessWindow
}
