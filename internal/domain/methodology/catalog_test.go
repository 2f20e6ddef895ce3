package methodology

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakatledger/backend/internal/domain/shared"
)

func TestGet(t *testing.T) {
	t.Run("returns seeded methodologies", func(t *testing.T) {
		for _, id := range []ID{Standard, Hanafi, Shafii, Maliki, Hanbali, Custom} {
			m, err := Get(id)
			require.NoError(t, err)
			assert.Equal(t, id, m.ID)
			assert.NotEmpty(t, m.Name)
			assert.True(t, m.NisabBasis.IsValid())
			assert.True(t, m.BusinessAssetTreatment.IsValid())
			assert.True(t, m.DebtDeductionPolicy.IsValid())
		}
	})

	t.Run("fails for unknown id", func(t *testing.T) {
		_, err := Get("jafari")
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, shared.ErrCodeUnknownMethodology))
	})

	t.Run("standard rate is 2.5 percent", func(t *testing.T) {
		m, err := Get(Standard)
		require.NoError(t, err)
		assert.True(t, m.StandardRate.Equal(decimal.NewFromFloat(0.025)))
	})

	t.Run("hanafi anchors to silver", func(t *testing.T) {
		m, err := Get(Hanafi)
		require.NoError(t, err)
		assert.Equal(t, BasisSilver, m.NisabBasis)
		assert.Equal(t, DebtComprehensive, m.DebtDeductionPolicy)
	})

	t.Run("custom requires parameters on every axis", func(t *testing.T) {
		m, err := Get(Custom)
		require.NoError(t, err)
		assert.True(t, m.NisabBasis.RequiresSelection())
		assert.True(t, m.DebtDeductionPolicy.RequiresParameters())
		assert.Equal(t, TreatmentConfigurable, m.BusinessAssetTreatment)
	})
}

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 6)
	// Order is stable with the standard methodology first.
	assert.Equal(t, Standard, all[0].ID)

	seen := make(map[ID]bool)
	for _, m := range all {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

func TestBasisSelection(t *testing.T) {
	assert.False(t, BasisGold.RequiresSelection())
	assert.False(t, BasisDualMinimum.RequiresSelection())
	assert.True(t, BasisDualFlexible.RequiresSelection())
	assert.True(t, BasisConfigurable.RequiresSelection())
}
