package methodology

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zakatledger/backend/internal/domain/shared"
)

// ID identifies a calculation methodology. The set is closed: callers pick
// one of the seeded identifiers, there is no user-defined registration.
type ID string

const (
	Standard ID = "standard"
	Hanafi   ID = "hanafi"
	Shafii   ID = "shafii"
	Maliki   ID = "maliki"
	Hanbali  ID = "hanbali"
	Custom   ID = "custom"
)

// NisabBasis selects which metal anchors the minimum-wealth threshold.
type NisabBasis string

const (
	BasisGold         NisabBasis = "GOLD"
	BasisSilver       NisabBasis = "SILVER"
	BasisDualMinimum  NisabBasis = "DUAL_MINIMUM"
	BasisDualFlexible NisabBasis = "DUAL_FLEXIBLE"
	BasisConfigurable NisabBasis = "CONFIGURABLE"
)

// IsValid returns true if the basis is one of the defined values
func (b NisabBasis) IsValid() bool {
	switch b {
	case BasisGold, BasisSilver, BasisDualMinimum, BasisDualFlexible, BasisConfigurable:
		return true
	}
	return false
}

// RequiresSelection reports whether the basis needs a caller-supplied
// metal preference (region or prior user choice) to resolve.
func (b NisabBasis) RequiresSelection() bool {
	return b == BasisDualFlexible || b == BasisConfigurable
}

// BusinessAssetTreatment governs how business and partial categories are valued.
type BusinessAssetTreatment string

const (
	TreatmentMarketValue   BusinessAssetTreatment = "MARKET_VALUE"
	TreatmentComprehensive BusinessAssetTreatment = "COMPREHENSIVE"
	TreatmentCategorized   BusinessAssetTreatment = "CATEGORIZED"
	TreatmentConfigurable  BusinessAssetTreatment = "CONFIGURABLE"
)

// IsValid returns true if the treatment is one of the defined values
func (t BusinessAssetTreatment) IsValid() bool {
	switch t {
	case TreatmentMarketValue, TreatmentComprehensive, TreatmentCategorized, TreatmentConfigurable:
		return true
	}
	return false
}

// DebtDeductionPolicy governs which liabilities reduce net zakatable wealth.
type DebtDeductionPolicy string

const (
	DebtImmediateOnly    DebtDeductionPolicy = "IMMEDIATE_ONLY"
	DebtComprehensive    DebtDeductionPolicy = "COMPREHENSIVE"
	DebtConservativeNone DebtDeductionPolicy = "CONSERVATIVE_NONE"
	DebtCommunityBased   DebtDeductionPolicy = "COMMUNITY_BASED"
	DebtConfigurable     DebtDeductionPolicy = "CONFIGURABLE"
)

// IsValid returns true if the policy is one of the defined values
func (p DebtDeductionPolicy) IsValid() bool {
	switch p {
	case DebtImmediateOnly, DebtComprehensive, DebtConservativeNone, DebtCommunityBased, DebtConfigurable:
		return true
	}
	return false
}

// RequiresParameters reports whether the policy needs caller-supplied
// community/regional parameters to resolve.
func (p DebtDeductionPolicy) RequiresParameters() bool {
	return p == DebtCommunityBased || p == DebtConfigurable
}

// Methodology is an immutable set of scholarly calculation rules. Instances
// are seeded once by the catalog and read-only thereafter.
type Methodology struct {
	ID                     ID
	Name                   string
	NisabBasis             NisabBasis
	BusinessAssetTreatment BusinessAssetTreatment
	DebtDeductionPolicy    DebtDeductionPolicy
	StandardRate           decimal.Decimal
}

// RequiresParameters reports whether any of the methodology's rules need
// caller-supplied parameters to resolve.
func (m Methodology) RequiresParameters() bool {
	return m.NisabBasis.RequiresSelection() ||
		m.BusinessAssetTreatment == TreatmentConfigurable ||
		m.DebtDeductionPolicy.RequiresParameters()
}

// standardRate is the canonical 2.5% obligation rate.
var standardRate = decimal.NewFromFloat(0.025)

// newMethodology builds and validates a catalog entry. It panics on invalid
// seed data: the catalog is compiled in, so a bad entry is a programming
// error, not a runtime condition.
func newMethodology(id ID, name string, basis NisabBasis, treatment BusinessAssetTreatment, debt DebtDeductionPolicy) Methodology {
	if !basis.IsValid() || !treatment.IsValid() || !debt.IsValid() {
		panic(fmt.Sprintf("invalid methodology seed data for %q", id))
	}
	return Methodology{
		ID:                     id,
		Name:                   name,
		NisabBasis:             basis,
		BusinessAssetTreatment: treatment,
		DebtDeductionPolicy:    debt,
		StandardRate:           standardRate,
	}
}

// ErrUnknownMethodology builds the typed failure for an id outside the catalog.
func ErrUnknownMethodology(id ID) *shared.DomainError {
	return shared.NewDomainError(shared.ErrCodeUnknownMethodology,
		fmt.Sprintf("Methodology %q is not in the catalog", id))
}
