// Package engine runs liquidity stress simulations: period by period it
// applies deposit run-off, meets the outflow by liquidating assets in the
// caller's order, triggers periodic credit deterioration, and checks the
// regulatory thresholds until one breaks or the horizon is reached.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/bankstress/balance"
	"github.com/rustyeddy/bankstress/metrics"
	"github.com/rustyeddy/bankstress/scenario"
)

// Liquidation-order labels accepted by the engine. Labels outside this set
// are logged and skipped.
const (
	LabelCash            = "Cash"
	LabelHQLALevel1      = "HQLA Level 1"
	LabelHQLALevel2A     = "HQLA Level 2A"
	LabelHQLALevel2B     = "HQLA Level 2B"
	LabelOtherSecurities = "Other Securities"
	LabelPerformingLoans = "Performing Loans"
	LabelRealEstate      = "Real Estate"
)

// liquidationTargets maps order labels to ledger keys.
var liquidationTargets = map[string]string{
	LabelCash:            balance.CashReserves,
	LabelHQLALevel1:      balance.HQLALevel1,
	LabelHQLALevel2A:     balance.HQLALevel2A,
	LabelHQLALevel2B:     balance.HQLALevel2B,
	LabelOtherSecurities: balance.OtherSecurities,
	LabelPerformingLoans: balance.PerformingLoans,
	LabelRealEstate:      balance.RealEstate,
}

// Base liquidation haircuts per asset class, percent. Classes outside the
// map get defaultBaseHaircut.
var baseHaircuts = map[string]float64{
	balance.CashReserves:    0,
	balance.HQLALevel1:      0,
	balance.HQLALevel2A:     5,
	balance.HQLALevel2B:     15,
	balance.OtherSecurities: 25,
	balance.PerformingLoans: 30,
	balance.RealEstate:      40,
}

const defaultBaseHaircut = 20.0

// depositTypes is the fixed set of funding categories subject to run-off,
// applied in this order every period.
var depositTypes = []string{
	balance.RetailStable,
	balance.RetailUnstable,
	balance.CorporateDeposits,
	balance.WholesaleFunding,
	balance.SecuredFunding,
}

// DefaultLiquidationOrder is the conventional cheapest-first waterfall.
func DefaultLiquidationOrder() []string {
	return []string{
		LabelCash,
		LabelHQLALevel1,
		LabelHQLALevel2A,
		LabelHQLALevel2B,
		LabelOtherSecurities,
		LabelPerformingLoans,
		LabelRealEstate,
	}
}

// ProgressFunc receives the period index and a human-readable status after
// it starts processing. It is called synchronously and must not block; it
// has no effect on results.
type ProgressFunc func(period int, status string)

// Engine owns one simulation. The initial balance sheet is cloned on Run,
// never mutated, so one Engine (or several, each with its own clone) can
// safely re-run the same inputs.
type Engine struct {
	initial          *balance.BalanceSheet
	scenario         *scenario.Scenario
	liquidationOrder []string
	recoveryActions  []string

	log zerolog.Logger
}

// New builds an engine over an initial balance sheet, a validated scenario,
// and the asset liquidation order. recoveryActions are carried into the
// result for display but are inert: no engine logic consumes them.
func New(initial *balance.BalanceSheet, sc *scenario.Scenario, liquidationOrder, recoveryActions []string) *Engine {
	return &Engine{
		initial:          initial,
		scenario:         sc,
		liquidationOrder: append([]string(nil), liquidationOrder...),
		recoveryActions:  append([]string(nil), recoveryActions...),
		log:              zerolog.Nop(),
	}
}

// SetLogger injects the engine logger (default no-op).
func (e *Engine) SetLogger(log zerolog.Logger) { e.log = log }

// Run executes the simulation and returns the result record. Runs are
// strictly sequential and deterministic: each period's opening state is the
// prior period's closing state, and there is no randomness anywhere.
func (e *Engine) Run(progress ProgressFunc) (*Result, error) {
	e.log.Info().
		Str("scenario", e.scenario.Name).
		Int("periods", e.scenario.NumPeriods).
		Msg("starting simulation")

	bs := e.initial.Copy()

	var (
		periods []PeriodResult
		breach  *Breach
	)

	for period := 0; period < e.scenario.NumPeriods; period++ {
		if progress != nil {
			progress(period, fmt.Sprintf("processing period %d/%d", period+1, e.scenario.NumPeriods))
		}

		result, err := e.executePeriod(bs, period)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", period, err)
		}
		// The period's record is appended even when it breaches.
		periods = append(periods, result)

		if b := e.checkBreach(bs, result); b != nil {
			breach = b
			e.log.Info().
				Str("breach", string(b.Type)).
				Int("period", b.Period).
				Float64("value", b.Value).
				Msg("breach detected")
			break
		}
	}

	result := e.compile(periods, breach)
	e.log.Info().
		Int("survival_horizon", result.SurvivalHorizon).
		Str("breach_type", string(result.BreachType)).
		Msg("simulation completed")

	return result, nil
}

func (e *Engine) executePeriod(bs *balance.BalanceSheet, period int) (PeriodResult, error) {
	result := PeriodResult{
		Period:   period,
		Opening:  bs.Snapshot(),
		Outflows: make(map[string]float64, len(depositTypes)),
	}

	outflow, err := e.applyWithdrawals(bs, period, &result)
	if err != nil {
		return PeriodResult{}, err
	}

	if err := e.meetOutflow(bs, outflow, &result); err != nil {
		return PeriodResult{}, err
	}

	// Credit quality decays on a slower clock than deposit flight: every
	// 10th period, not the first.
	if period > 0 && period%10 == 0 {
		impact := e.scenario.ApplyCreditDeterioration(bs)
		result.Credit = &impact
	}

	result.Metrics = snapshotMetrics(bs)
	result.Closing = bs.Snapshot()
	bs.Period = period + 1

	return result, nil
}

func (e *Engine) applyWithdrawals(bs *balance.BalanceSheet, period int, result *PeriodResult) (float64, error) {
	var total float64

	for _, depositType := range depositTypes {
		opening := bs.Liability(depositType)
		if opening <= 0 {
			continue
		}

		runoff := e.scenario.RunoffForPeriod(period, depositType, opening)
		withdrawn, err := bs.ApplyWithdrawal(depositType, runoff)
		if err != nil {
			return 0, err
		}

		total += withdrawn
		result.Outflows[depositType] = withdrawn
	}

	return total, nil
}

// meetOutflow liquidates assets in the configured order until the outflow
// is covered, then draws any residual straight from cash. Outflow beyond
// the total liquid and liquidatable capacity is simply not met; there is no
// separate funding-shortfall condition.
func (e *Engine) meetOutflow(bs *balance.BalanceSheet, outflow float64, result *PeriodResult) error {
	remaining := outflow

	for _, label := range e.liquidationOrder {
		if remaining <= 0 {
			break
		}

		assetType, ok := liquidationTargets[label]
		if !ok {
			e.log.Warn().Str("label", label).Msg("unmapped liquidation-order label, skipping")
			continue
		}

		available := bs.Asset(assetType)
		if available <= 0 {
			continue
		}

		haircut := e.liquidationHaircut(assetType)

		// Sell enough that post-haircut proceeds cover the gap, bounded by
		// what is actually on the book.
		amount := min(remaining/(1-haircut/100), available)
		if amount <= 0 {
			continue
		}

		liquidation, err := bs.LiquidateAsset(assetType, amount, haircut)
		if err != nil {
			return err
		}

		result.Liquidations = append(result.Liquidations, liquidation)
		result.Losses += liquidation.Loss
		remaining -= liquidation.Proceeds
	}

	if remaining > 0 {
		bs.DrawCash(remaining)
	}
	return nil
}

// liquidationHaircut is the class base haircut plus the scenario fire-sale
// discount. Cash and level-1 HQLA are deep enough markets to escape the
// fire-sale add-on.
func (e *Engine) liquidationHaircut(assetType string) float64 {
	base, ok := baseHaircuts[assetType]
	if !ok {
		base = defaultBaseHaircut
	}

	if assetType == balance.CashReserves || assetType == balance.HQLALevel1 {
		return base
	}
	return base + e.scenario.FireSaleDiscount
}

func snapshotMetrics(bs *balance.BalanceSheet) Metrics {
	summary := metrics.Calculate(bs)
	return Metrics{
		LCR:               summary.LCR.LCR,
		NSFR:              summary.NSFR.NSFR,
		CET1Ratio:         summary.CET1Ratio,
		TotalCapitalRatio: summary.TotalCapitalRatio,
		LiquidAssets:      summary.LiquidAssets,
		TotalDeposits:     summary.TotalDeposits,
	}
}

// checkBreach evaluates the breach conditions in fixed priority order: LCR
// first, then CET1, then total liquidity depletion. The first match wins.
func (e *Engine) checkBreach(bs *balance.BalanceSheet, result PeriodResult) *Breach {
	m := result.Metrics

	if m.LCR < LCRMinimum {
		return &Breach{Type: BreachLCR, Value: m.LCR, Threshold: LCRMinimum, Period: result.Period}
	}
	if m.CET1Ratio < CET1Minimum {
		return &Breach{Type: BreachCET1, Value: m.CET1Ratio, Threshold: CET1Minimum, Period: result.Period}
	}
	if bs.Asset(balance.CashReserves) <= 0 && bs.TotalLiquidAssets() <= 0 {
		return &Breach{Type: BreachLiquidity, Value: 0, Threshold: 0, Period: result.Period}
	}
	return nil
}

func (e *Engine) compile(periods []PeriodResult, breach *Breach) *Result {
	result := &Result{
		ScenarioName:    e.scenario.Name,
		SurvivalHorizon: e.scenario.NumPeriods,
		BreachType:      BreachNone,
		RecoveryActions: append([]string(nil), e.recoveryActions...),
		Periods:         periods,
	}

	if breach != nil {
		result.Breach = breach
		result.BreachType = breach.Type
		result.SurvivalHorizon = breach.Period
	}

	for _, p := range periods {
		for _, liquidation := range p.Liquidations {
			result.AssetDepletion += liquidation.AmountLiquidated
		}
		result.TotalLosses += p.Losses
	}

	if equity := e.initial.TotalEquity(); equity > 0 {
		result.CapitalErosion = result.TotalLosses / equity * 100
	}

	if n := len(periods); n > 0 {
		result.FinalLCR = periods[n-1].Metrics.LCR
		result.FinalCET1 = periods[n-1].Metrics.CET1Ratio
	}

	return result
}
