package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/bankstress/balance"
)

func TestPredefined(t *testing.T) {
	t.Parallel()

	all := Predefined()
	require.Len(t, all, 3)

	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s.Name], "duplicate name %q", s.Name)
		seen[s.Name] = true
		assert.Positive(t, s.NumPeriods)
		assert.Equal(t, Daily, s.Granularity)
	}
}

func TestBaselLCRStandard(t *testing.T) {
	t.Parallel()

	s := BaselLCRStandard()
	assert.Equal(t, 30, s.NumPeriods)
	assert.InDelta(t, 100, s.RunoffRates[balance.WholesaleFunding], 1e-9)
	assert.InDelta(t, 5, s.RunoffRates[balance.RetailStable], 1e-9)
	assert.Zero(t, s.FireSaleDiscount)
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	basel := BaselLCRStandard()
	severe := SevereStress()
	crisis := IdiosyncraticCrisis()

	for _, depositType := range []string{
		balance.RetailStable, balance.RetailUnstable,
		balance.CorporateDeposits, balance.SecuredFunding,
	} {
		assert.LessOrEqual(t, basel.RunoffRates[depositType], severe.RunoffRates[depositType], depositType)
		assert.LessOrEqual(t, severe.RunoffRates[depositType], crisis.RunoffRates[depositType], depositType)
	}
	assert.Less(t, severe.FireSaleDiscount, crisis.FireSaleDiscount)
	assert.Less(t, severe.LoanMigrationRate, crisis.LoanMigrationRate)
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("Severe Combined Stress")
	require.NoError(t, err)
	assert.Equal(t, 60, s.NumPeriods)

	_, err = ByName("No Such Scenario")
	assert.Error(t, err)
}
