package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/bankstress/balance"
	"github.com/rustyeddy/bankstress/scenario"
)

// spec-style bank: assets 21300, liabilities 19000, equity 2000.
func stressedSheet(t *testing.T) *balance.BalanceSheet {
	t.Helper()

	bs, err := balance.New(
		map[string]float64{
			balance.CashReserves:    1000,
			balance.HQLALevel1:      2000,
			balance.HQLALevel2A:     500,
			balance.HQLALevel2B:     300,
			balance.PerformingLoans: 15000,
			balance.NPL:             500,
			balance.RealEstate:      1000,
			balance.OtherSecurities: 800,
			balance.OtherAssets:     200,
		},
		map[string]float64{
			balance.RetailStable:      8000,
			balance.RetailUnstable:    4000,
			balance.CorporateDeposits: 3000,
			balance.WholesaleFunding:  2000,
			balance.SecuredFunding:    1500,
			balance.OtherLiabilities:  500,
		},
		map[string]float64{
			balance.CET1:  1500,
			balance.AT1:   200,
			balance.Tier2: 300,
		},
	)
	require.NoError(t, err)
	return bs
}

// healthySheet survives a zero-stress scenario indefinitely.
func healthySheet(t *testing.T) *balance.BalanceSheet {
	t.Helper()

	bs, err := balance.New(
		map[string]float64{
			balance.CashReserves:    1000,
			balance.HQLALevel1:      20000,
			balance.PerformingLoans: 5000,
		},
		map[string]float64{
			balance.RetailStable:      10000,
			balance.RetailUnstable:    2000,
			balance.CorporateDeposits: 2000,
			balance.WholesaleFunding:  1000,
			balance.SecuredFunding:    1000,
		},
		map[string]float64{
			balance.CET1:  9000,
			balance.AT1:   500,
			balance.Tier2: 500,
		},
	)
	require.NoError(t, err)
	return bs
}

func zeroRunoffScenario(t *testing.T, periods int) *scenario.Scenario {
	t.Helper()

	s, err := scenario.New(scenario.Scenario{
		Name:        "No Stress",
		Granularity: scenario.Daily,
		NumPeriods:  periods,
		RunoffRates: map[string]float64{
			balance.RetailStable:      0,
			balance.RetailUnstable:    0,
			balance.CorporateDeposits: 0,
			balance.WholesaleFunding:  0,
			balance.SecuredFunding:    0,
		},
	})
	require.NoError(t, err)
	return s
}

func TestRunBaselStandardScenario(t *testing.T) {
	t.Parallel()

	e := New(stressedSheet(t), scenario.BaselLCRStandard(),
		[]string{LabelCash, LabelHQLALevel1, LabelHQLALevel2A, LabelHQLALevel2B}, nil)

	result, err := e.Run(nil)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.SurvivalHorizon, 30)
	assert.GreaterOrEqual(t, result.AssetDepletion, 0.0)
	assert.NotEmpty(t, result.Periods)
	assert.Equal(t, result.Periods[len(result.Periods)-1].Metrics.LCR, result.FinalLCR)
	assert.Equal(t, result.Periods[len(result.Periods)-1].Metrics.CET1Ratio, result.FinalCET1)
	// Initial equity 2000: erosion is losses relative to that.
	assert.InDelta(t, result.TotalLosses/2000*100, result.CapitalErosion, 1e-9)
}

func TestRunDoesNotMutateInitialSheet(t *testing.T) {
	t.Parallel()

	bs := stressedSheet(t)
	e := New(bs, scenario.BaselLCRStandard(), DefaultLiquidationOrder(), nil)

	_, err := e.Run(nil)
	require.NoError(t, err)

	assert.InDelta(t, 8000, bs.Liability(balance.RetailStable), 1e-9)
	assert.InDelta(t, 1000, bs.Asset(balance.CashReserves), 1e-9)
	assert.InDelta(t, 1500, bs.EquityItem(balance.CET1), 1e-9)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func() *Result {
		e := New(stressedSheet(t), scenario.SevereStress(), DefaultLiquidationOrder(), nil)
		result, err := e.Run(nil)
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, run(), run())
}

func TestRunZeroOutflowSurvivesFullHorizon(t *testing.T) {
	t.Parallel()

	const periods = 12
	e := New(healthySheet(t), zeroRunoffScenario(t, periods), DefaultLiquidationOrder(), nil)

	result, err := e.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, periods, result.SurvivalHorizon)
	assert.Equal(t, BreachNone, result.BreachType)
	assert.Nil(t, result.Breach)
	require.Len(t, result.Periods, periods)
	for _, p := range result.Periods {
		assert.Empty(t, p.Liquidations, "period %d", p.Period)
		assert.Zero(t, p.Losses, "period %d", p.Period)
	}
	assert.Zero(t, result.AssetDepletion)
	assert.Zero(t, result.TotalLosses)
}

func TestBreachPriorityLCRBeforeCET1(t *testing.T) {
	t.Parallel()

	// Fails both LCR (almost no HQLA) and CET1 (3% of RWA) in period 0;
	// the engine must report LCR, the higher-priority condition.
	bs, err := balance.New(
		map[string]float64{
			balance.CashReserves:    100,
			balance.HQLALevel1:      100,
			balance.PerformingLoans: 10000,
		},
		map[string]float64{
			balance.WholesaleFunding: 5000,
			balance.RetailStable:     4000,
		},
		map[string]float64{
			balance.CET1:  300,
			balance.AT1:   500,
			balance.Tier2: 400,
		},
	)
	require.NoError(t, err)
	require.Less(t, bs.CET1Ratio(), CET1Minimum)

	e := New(bs, scenario.BaselLCRStandard(), []string{LabelCash, LabelHQLALevel1}, nil)

	result, err := e.Run(nil)
	require.NoError(t, err)

	require.NotNil(t, result.Breach)
	assert.Equal(t, BreachLCR, result.BreachType)
	assert.Equal(t, 0, result.Breach.Period)
	assert.Equal(t, 0, result.SurvivalHorizon)
	assert.InDelta(t, LCRMinimum, result.Breach.Threshold, 1e-9)
	assert.Less(t, result.Breach.Value, LCRMinimum)
}

func TestWholesaleWipeoutDrainsCashToZero(t *testing.T) {
	t.Parallel()

	// Wholesale run-off (3000) exceeds total cash (1000) and the
	// liquidation order holds only cash. The residual is drawn down to
	// exactly zero and the unmet remainder is silently dropped; no
	// unknown-category error may surface.
	bs, err := balance.New(
		map[string]float64{
			balance.CashReserves:    1000,
			balance.PerformingLoans: 9000,
		},
		map[string]float64{
			balance.WholesaleFunding: 3000,
			balance.OtherLiabilities: 1000,
		},
		map[string]float64{balance.CET1: 6000},
	)
	require.NoError(t, err)

	s, err := scenario.New(scenario.Scenario{
		Name:        "Wholesale Wipeout",
		Granularity: scenario.Daily,
		NumPeriods:  5,
		RunoffRates: map[string]float64{balance.WholesaleFunding: 100},
	})
	require.NoError(t, err)

	e := New(bs, s, []string{LabelCash}, nil)

	result, err := e.Run(nil)
	require.NoError(t, err)

	p0 := result.Periods[0]
	assert.InDelta(t, 3000, p0.Outflows[balance.WholesaleFunding], 1e-9)
	assert.Zero(t, p0.Closing.Assets[balance.CashReserves])
	assert.Zero(t, p0.Closing.Liabilities[balance.WholesaleFunding])

	// No HQLA, no cash: complete liquidity depletion (LCR reports the
	// no-exposure sentinel since outflows are gone, CET1 is healthy).
	require.NotNil(t, result.Breach)
	assert.Equal(t, BreachLiquidity, result.BreachType)
	assert.Equal(t, 0, result.SurvivalHorizon)
}

func TestCreditDeteriorationEveryTenthPeriod(t *testing.T) {
	t.Parallel()

	bs, err := balance.New(
		map[string]float64{
			balance.CashReserves:    50000,
			balance.HQLALevel1:      10000,
			balance.PerformingLoans: 10000,
		},
		map[string]float64{balance.RetailStable: 30000},
		map[string]float64{balance.CET1: 40000},
	)
	require.NoError(t, err)

	s, err := scenario.New(scenario.Scenario{
		Name:              "Slow Burn",
		Granularity:       scenario.Daily,
		NumPeriods:        15,
		RunoffRates:       map[string]float64{balance.RetailStable: 0},
		LoanMigrationRate: 10,
		ProvisioningRate:  50,
	})
	require.NoError(t, err)

	e := New(bs, s, DefaultLiquidationOrder(), nil)

	result, err := e.Run(nil)
	require.NoError(t, err)
	require.Len(t, result.Periods, 15)

	for _, p := range result.Periods {
		if p.Period == 10 {
			require.NotNil(t, p.Credit, "period 10 must deteriorate")
			assert.InDelta(t, 1000, p.Credit.MigrationAmount, 1e-9)
			assert.InDelta(t, 500, p.Credit.Provision, 1e-9)
			assert.InDelta(t, 1000, p.Closing.Assets[balance.NPL], 1e-9)
			assert.InDelta(t, 39500, p.Closing.Equity[balance.CET1], 1e-9)
		} else {
			assert.Nil(t, p.Credit, "period %d", p.Period)
		}
	}
}

func TestUnknownLiquidationLabelSkipped(t *testing.T) {
	t.Parallel()

	s, err := scenario.New(scenario.Scenario{
		Name:        "Mild Retail Runoff",
		Granularity: scenario.Daily,
		NumPeriods:  3,
		RunoffRates: map[string]float64{balance.RetailStable: 10},
	})
	require.NoError(t, err)

	// The unmapped label is skipped and the waterfall continues with cash.
	e := New(healthySheet(t), s, []string{"Gold Bars", LabelCash, LabelHQLALevel1}, nil)

	result, err := e.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SurvivalHorizon)
	assert.NotEmpty(t, result.Periods[0].Liquidations)
	assert.Equal(t, balance.CashReserves, result.Periods[0].Liquidations[0].AssetType)
}

func TestProgressCallback(t *testing.T) {
	t.Parallel()

	const periods = 4
	var got []string
	progress := func(period int, status string) {
		got = append(got, fmt.Sprintf("%d:%s", period, status))
	}

	e := New(healthySheet(t), zeroRunoffScenario(t, periods), DefaultLiquidationOrder(), nil)
	_, err := e.Run(progress)
	require.NoError(t, err)

	require.Len(t, got, periods)
	assert.Equal(t, "0:processing period 1/4", got[0])
	assert.Equal(t, "3:processing period 4/4", got[3])
}

func TestRecoveryActionsAreInert(t *testing.T) {
	t.Parallel()

	run := func(actions []string) *Result {
		e := New(stressedSheet(t), scenario.BaselLCRStandard(), DefaultLiquidationOrder(), actions)
		result, err := e.Run(nil)
		require.NoError(t, err)
		return result
	}

	with := run([]string{"capital_raise", "central_bank_facility"})
	without := run(nil)

	// Carried for display only: no effect on the simulation.
	assert.Equal(t, []string{"capital_raise", "central_bank_facility"}, with.RecoveryActions)
	assert.Equal(t, without.SurvivalHorizon, with.SurvivalHorizon)
	assert.Equal(t, without.TotalLosses, with.TotalLosses)
	assert.Equal(t, without.FinalLCR, with.FinalLCR)
}

func TestPeriodRecordShapes(t *testing.T) {
	t.Parallel()

	e := New(stressedSheet(t), scenario.SevereStress(), DefaultLiquidationOrder(), nil)
	result, err := e.Run(nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Periods)

	p0 := result.Periods[0]
	assert.Equal(t, 0, p0.Period)
	// Opening snapshot is the untouched initial state.
	assert.InDelta(t, 8000, p0.Opening.Liabilities[balance.RetailStable], 1e-9)
	// Severe stress withdraws 15% of stable retail in period 0.
	assert.InDelta(t, 1200, p0.Outflows[balance.RetailStable], 1e-9)
	assert.InDelta(t, 6800, p0.Closing.Liabilities[balance.RetailStable], 1e-9)
	assert.InDelta(t, 1200+1200+1800+2000+750, p0.TotalOutflow(), 1e-9)
}
