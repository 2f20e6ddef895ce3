package zakat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakatledger/backend/internal/domain/asset"
	"github.com/zakatledger/backend/internal/domain/methodology"
	"github.com/zakatledger/backend/internal/domain/shared"
	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
)

func valuated(amount float64) asset.ValuatedAsset {
	return asset.ValuatedAsset{
		AssetID:             uuid.New(),
		Label:               "holding",
		Category:            asset.CategoryCash,
		RawValue:            decimal.NewFromFloat(amount),
		CalculationModifier: asset.ModifierFull,
		ZakatableAmount:     valueobject.NewMoneyUSDFromFloat(amount),
	}
}

func liability(t *testing.T, kind asset.LiabilityKind, amount float64, dueAt *time.Time) asset.LiabilityRecord {
	t.Helper()
	l, err := asset.NewLiabilityRecord(uuid.New(), "debt", kind, decimal.NewFromFloat(amount), dueAt)
	require.NoError(t, err)
	return *l
}

func TestObligationCalculator_Calculate(t *testing.T) {
	calc := NewObligationCalculator()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	threshold := NisabThreshold{ThresholdValue: valueobject.NewMoneyUSDFromFloat(500)}
	std, err := methodology.Get(methodology.Standard)
	require.NoError(t, err)

	t.Run("obligatory above threshold at standard rate", func(t *testing.T) {
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(10000)}, nil, std, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.True(t, ob.IsObligatory)
		assert.Equal(t, "250.00", ob.ZakatAmount.StringFixed(2))
	})

	t.Run("threshold boundary is inclusive", func(t *testing.T) {
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(500)}, nil, std, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.True(t, ob.IsObligatory)
		assert.Equal(t, "12.50", ob.ZakatAmount.StringFixed(2))
	})

	t.Run("below threshold owes nothing", func(t *testing.T) {
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(499.99)}, nil, std, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.False(t, ob.IsObligatory)
		assert.True(t, ob.ZakatAmount.IsZero())
	})

	t.Run("immediate only deducts debts due within the cycle", func(t *testing.T) {
		soon := now.Add(24 * time.Hour)
		later := now.Add(90 * 24 * time.Hour)
		liabilities := []asset.LiabilityRecord{
			liability(t, asset.LiabilityCreditCard, 1000, &soon),
			liability(t, asset.LiabilityMortgage, 200000, &later),
		}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(10000)}, liabilities, std, threshold,
			ObligationParams{CycleEnd: now.Add(30 * 24 * time.Hour)}, now)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", ob.DeductibleLiabilities.StringFixed(2))
		assert.Equal(t, "9000.00", ob.NetWealth.StringFixed(2))
		assert.Equal(t, "225.00", ob.ZakatAmount.StringFixed(2))
	})

	t.Run("undated liability is treated as due now", func(t *testing.T) {
		liabilities := []asset.LiabilityRecord{liability(t, asset.LiabilityCreditCard, 300, nil)}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(1000)}, liabilities, std, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.Equal(t, "700.00", ob.NetWealth.StringFixed(2))
	})

	t.Run("comprehensive deducts everything", func(t *testing.T) {
		hanafi, err := methodology.Get(methodology.Hanafi)
		require.NoError(t, err)
		later := now.Add(365 * 24 * time.Hour)
		liabilities := []asset.LiabilityRecord{
			liability(t, asset.LiabilityMortgage, 4000, &later),
			liability(t, asset.LiabilityCreditCard, 1000, nil),
		}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(10000)}, liabilities, hanafi, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.Equal(t, "5000.00", ob.DeductibleLiabilities.StringFixed(2))
	})

	t.Run("conservative deducts nothing", func(t *testing.T) {
		maliki, err := methodology.Get(methodology.Maliki)
		require.NoError(t, err)
		liabilities := []asset.LiabilityRecord{liability(t, asset.LiabilityCreditCard, 5000, nil)}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(10000)}, liabilities, maliki, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.True(t, ob.DeductibleLiabilities.IsZero())
		assert.Equal(t, "10000.00", ob.NetWealth.StringFixed(2))
	})

	t.Run("configurable policy without kinds fails", func(t *testing.T) {
		custom, err := methodology.Get(methodology.Custom)
		require.NoError(t, err)
		liabilities := []asset.LiabilityRecord{liability(t, asset.LiabilityCreditCard, 100, nil)}
		_, err = calc.Calculate([]asset.ValuatedAsset{valuated(1000)}, liabilities, custom, threshold, ObligationParams{}, now)
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeMethodologyParameterMissing))
	})

	t.Run("configurable policy filters by kind", func(t *testing.T) {
		custom, err := methodology.Get(methodology.Custom)
		require.NoError(t, err)
		liabilities := []asset.LiabilityRecord{
			liability(t, asset.LiabilityCreditCard, 100, nil),
			liability(t, asset.LiabilityTaxObligation, 900, nil),
		}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(1000)}, liabilities, custom, threshold,
			ObligationParams{DeductibleLiabilityKinds: []asset.LiabilityKind{asset.LiabilityTaxObligation}}, now)
		require.NoError(t, err)
		assert.Equal(t, "900.00", ob.DeductibleLiabilities.StringFixed(2))
	})

	t.Run("net wealth never goes negative", func(t *testing.T) {
		liabilities := []asset.LiabilityRecord{liability(t, asset.LiabilityCreditCard, 5000, nil)}
		ob, err := calc.Calculate([]asset.ValuatedAsset{valuated(1000)}, liabilities, std, threshold, ObligationParams{}, now)
		require.NoError(t, err)
		assert.True(t, ob.NetWealth.IsZero())
		assert.False(t, ob.IsObligatory)
	})
}
