package asset

// Category is the fixed enumeration of asset categories known to the engine.
type Category string

const (
	CategoryCash                 Category = "CASH"
	CategoryChecking             Category = "CHECKING"
	CategorySavings              Category = "SAVINGS"
	CategoryGoldSilver           Category = "GOLD_SILVER"
	CategoryStock                Category = "STOCK"
	CategoryFund                 Category = "FUND"
	CategoryCrypto               Category = "CRYPTO"
	CategoryReceivables          Category = "RECEIVABLES"
	CategoryRetirementAccount    Category = "RETIREMENT_ACCOUNT"
	CategoryBusinessInventory    Category = "BUSINESS_INVENTORY"
	CategoryInvestmentRealEstate Category = "INVESTMENT_REAL_ESTATE"
	CategoryPrimaryResidence     Category = "PRIMARY_RESIDENCE"
	CategoryVehicle              Category = "VEHICLE"
	CategoryPersonalEffects      Category = "PERSONAL_EFFECTS"
)

// zakatableCategories are counted in full (modifier 1.0 before flags).
var zakatableCategories = map[Category]bool{
	CategoryCash:              true,
	CategoryChecking:          true,
	CategorySavings:           true,
	CategoryGoldSilver:        true,
	CategoryStock:             true,
	CategoryFund:              true,
	CategoryCrypto:            true,
	CategoryReceivables:       true,
	CategoryRetirementAccount: true,
}

// partialCategories are business-type holdings whose valuation depends on
// the methodology's business-asset treatment.
var partialCategories = map[Category]bool{
	CategoryBusinessInventory:    true,
	CategoryInvestmentRealEstate: true,
}

// passiveEligibleCategories are the equity-like categories the passive
// investment flag may apply to.
var passiveEligibleCategories = map[Category]bool{
	CategoryStock: true,
	CategoryFund:  true,
}

// restrictedEligibleCategories are the tax-deferred account categories the
// restricted-account flag may apply to.
var restrictedEligibleCategories = map[Category]bool{
	CategoryRetirementAccount: true,
}

// IsValid returns true if the category is one of the defined values
func (c Category) IsValid() bool {
	if zakatableCategories[c] || partialCategories[c] {
		return true
	}
	switch c {
	case CategoryPrimaryResidence, CategoryVehicle, CategoryPersonalEffects:
		return true
	}
	return false
}

// IsZakatable reports whether the category is counted in full.
func (c Category) IsZakatable() bool {
	return zakatableCategories[c]
}

// IsPartial reports whether valuation depends on business-asset treatment.
func (c Category) IsPartial() bool {
	return partialCategories[c]
}

// IsEligible reports whether the category participates in the wealth test
// at all (zakatable or partial).
func (c Category) IsEligible() bool {
	return c.IsZakatable() || c.IsPartial()
}

// AllowsPassiveFlag reports whether isPassiveInvestment may be set.
func (c Category) AllowsPassiveFlag() bool {
	return passiveEligibleCategories[c]
}

// AllowsRestrictedFlag reports whether isRestrictedAccount may be set.
func (c Category) AllowsRestrictedFlag() bool {
	return restrictedEligibleCategories[c]
}
