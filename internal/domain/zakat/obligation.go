package zakat

import (
	"time"

	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

// Obligation is the outcome of the wealth test: net zakatable wealth, whether
// the threshold is met, and the amount owed.
type Obligation struct {
	GrossZakatable       valueobject.Money `json:"gross_zakatable"`
	DeductibleLiabilities valueobject.Money `json:"deductible_liabilities"`
	NetWealth            valueobject.Money `json:"net_wealth"`
	IsObligatory         bool              `json:"is_obligatory"`
	ZakatAmount          valueobject.Money `json:"zakat_amount"`
}

// ObligationParams carries caller-supplied parameters needed when the
// methodology's debt-deduction policy is community-based or configurable.
type ObligationParams struct {
	// DeductibleLiabilityKinds resolves COMMUNITY_BASED and CONFIGURABLE
	// policies: only liabilities of the listed kinds are deducted.
	DeductibleLiabilityKinds []asset.LiabilityKind
	// CycleEnd bounds the IMMEDIATE_ONLY policy: liabilities due on or
	// before this time are deductible. Zero value means "due now".
	CycleEnd time.Time
}

// ObligationCalculator combines valuated assets, deductible liabilities and
// the methodology's debt policy into a final amount. Pure function over its
// inputs; no side effects.
type ObligationCalculator struct{}

// NewObligationCalculator creates a new ObligationCalculator
func NewObligationCalculator() *ObligationCalculator {
	return &ObligationCalculator{}
}

// Calculate runs the wealth test. The threshold comparison is inclusive:
// wealth exactly equal to the threshold is obligatory. The obligation is
// never negative.
func (c *ObligationCalculator) Calculate(
	valuated []asset.ValuatedAsset,
	liabilities []asset.LiabilityRecord,
	m methodology.Methodology,
	threshold NisabThreshold,
	params ObligationParams,
	now time.Time,
) (Obligation, error) {
	gross := asset.TotalZakatable(valuated)

	deductible, err := c.deductible(liabilities, m.DebtDeductionPolicy, params, now)
	if err != nil {
		return Obligation{}, err
	}

	net := gross.MustSubtract(deductible)
	if net.IsNegative() {
		net = valueobject.ZeroUSD()
	}

	obligatory, _ := net.GreaterThanOrEqual(threshold.ThresholdValue)

	amount := valueobject.ZeroUSD()
	if obligatory {
		amount = net.Multiply(m.StandardRate).RoundCurrency()
	}

	return Obligation{
		GrossZakatable:        gross,
		DeductibleLiabilities: deductible,
		NetWealth:             net,
		IsObligatory:          obligatory,
		ZakatAmount:           amount,
	}, nil
}

func (c *ObligationCalculator) deductible(
	liabilities []asset.LiabilityRecord,
	policy methodology.DebtDeductionPolicy,
	params ObligationParams,
	now time.Time,
) (valueobject.Money, error) {
	total := valueobject.ZeroUSD()

	switch policy {
	case methodology.DebtConservativeNone:
		return total, nil

	case methodology.DebtComprehensive:
		for i := range liabilities {
			total = total.MustAdd(liabilities[i].AmountMoney())
		}
		return total, nil

	case methodology.DebtImmediateOnly:
		cutoff := params.CycleEnd
		if cutoff.IsZero() {
			cutoff = now
		}
		for i := range liabilities {
			if liabilities[i].IsDueBy(cutoff) {
				total = total.MustAdd(liabilities[i].AmountMoney())
			}
		}
		return total, nil

	case methodology.DebtCommunityBased, methodology.DebtConfigurable:
		if params.DeductibleLiabilityKinds == nil {
			return total, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
				"Community-based debt deduction requires the deductible liability kinds")
		}
		allowed := make(map[asset.LiabilityKind]bool, len(params.DeductibleLiabilityKinds))
		for _, k := range params.DeductibleLiabilityKinds {
			allowed[k] = true
		}
		for i := range liabilities {
			if allowed[liabilities[i].Kind] {
				total = total.MustAdd(liabilities[i].AmountMoney())
			}
		}
		return total, nil
	}

	return total, shared.NewDomainError(shared.ErrCodeMethodologyParameterMissing,
		"Debt deduction policy cannot be resolved")
}
