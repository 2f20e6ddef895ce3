package methodology

// catalog is the fixed table of scholarly methodologies. Seeded once at
// package init; never mutated afterwards.
//
// The named-school parameterizations follow the common summaries used by
// zakat calculators: the Hanafi school anchors nisab to silver and deducts
// debts broadly, the Shafii/Maliki/Hanbali schools favour the lower of the
// two metal thresholds with immediate-debt deduction, and the standard
// contemporary methodology uses the dual minimum with immediate-only debts.
var catalog = map[ID]Methodology{
	Standard: newMethodology(Standard, "Standard (contemporary)",
		BasisDualMinimum, TreatmentMarketValue, DebtImmediateOnly),
	Hanafi: newMethodology(Hanafi, "Hanafi",
		BasisSilver, TreatmentComprehensive, DebtComprehensive),
	Shafii: newMethodology(Shafii, "Shafi'i",
		BasisDualMinimum, TreatmentMarketValue, DebtImmediateOnly),
	Maliki: newMethodology(Maliki, "Maliki",
		BasisDualMinimum, TreatmentMarketValue, DebtConservativeNone),
	Hanbali: newMethodology(Hanbali, "Hanbali",
		BasisDualMinimum, TreatmentCategorized, DebtImmediateOnly),
	Custom: newMethodology(Custom, "Custom",
		BasisConfigurable, TreatmentConfigurable, DebtConfigurable),
}

// orderedIDs keeps listing output deterministic.
var orderedIDs = []ID{Standard, Hanafi, Shafii, Maliki, Hanbali, Custom}

// Get returns the methodology for the given id. Pure lookup, no side
// effects; unknown ids fail with UNKNOWN_METHODOLOGY.
func Get(id ID) (Methodology, error) {
	m, ok := catalog[id]
	if !ok {
		return Methodology{}, ErrUnknownMethodology(id)
	}
	return m, nil
}

// All returns the catalog entries in a stable order.
func All() []Methodology {
	out := make([]Methodology, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		out = append(out, catalog[id])
	}
	return out
}
