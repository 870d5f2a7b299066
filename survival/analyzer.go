// Package survival turns a raw simulation result into an analyst-facing
// report: breach narrative, near-miss periods, failure driver, per-class
// asset depletion and the metric trajectories with summary statistics.
package survival

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/rustyeddy/bankstress/engine"
)

// Severity grades a breach for reporting.
type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
	SeverityFatal    Severity = "Fatal"
)

// Near-breach thresholds for critical-period detection.
const (
	lcrWatchLevel  = 110.0
	cet1WatchLevel = 5.5
)

// outflowDominanceFactor decides the LCR/liquidity failure narrative:
// withdrawals dominate when they exceed this multiple of fire-sale losses.
const outflowDominanceFactor = 5.0

// BreachAnalysis is the narrative view of a run's terminal condition.
type BreachAnalysis struct {
	Breached  bool              `json:"breached" yaml:"breached"`
	Type      engine.BreachType `json:"type,omitempty" yaml:"type,omitempty"`
	Period    int               `json:"period" yaml:"period"`
	Value     float64           `json:"value" yaml:"value"`
	Threshold float64           `json:"threshold" yaml:"threshold"`
	Severity  Severity          `json:"severity" yaml:"severity"`
	Message   string            `json:"message" yaml:"message"`
}

// AssetDepletion aggregates the liquidations of one asset class.
type AssetDepletion struct {
	TotalSold  float64 `json:"total_sold" yaml:"total_sold"`
	TotalLoss  float64 `json:"total_loss" yaml:"total_loss"`
	Count      int     `json:"count" yaml:"count"`
	AvgHaircut float64 `json:"avg_haircut" yaml:"avg_haircut"`
}

// Series is one metric's values over the simulated periods, with summary
// statistics over the realized path.
type Series struct {
	Values []float64 `json:"values" yaml:"values"`
	Min    float64   `json:"min" yaml:"min"`
	Max    float64   `json:"max" yaml:"max"`
	Mean   float64   `json:"mean" yaml:"mean"`
	StdDev float64   `json:"std_dev" yaml:"std_dev"`
}

// Trajectory is the time series of the key metrics.
type Trajectory struct {
	Periods       []int  `json:"periods" yaml:"periods"`
	LCR           Series `json:"lcr" yaml:"lcr"`
	CET1Ratio     Series `json:"cet1_ratio" yaml:"cet1_ratio"`
	LiquidAssets  Series `json:"liquid_assets" yaml:"liquid_assets"`
	TotalDeposits Series `json:"total_deposits" yaml:"total_deposits"`
}

// Report is the full post-run summary.
type Report struct {
	ScenarioName    string                    `json:"scenario_name" yaml:"scenario_name"`
	SurvivalHorizon int                       `json:"survival_horizon" yaml:"survival_horizon"`
	Breach          BreachAnalysis            `json:"breach_analysis" yaml:"breach_analysis"`
	PrimaryDriver   string                    `json:"primary_driver" yaml:"primary_driver"`
	CriticalPeriods []int                     `json:"critical_periods" yaml:"critical_periods"`
	AssetDepletion  map[string]AssetDepletion `json:"asset_depletion" yaml:"asset_depletion"`
	TotalDepletion  float64                   `json:"total_asset_depletion" yaml:"total_asset_depletion"`
	TotalLosses     float64                   `json:"total_losses" yaml:"total_losses"`
	CapitalErosion  float64                   `json:"capital_erosion_pct" yaml:"capital_erosion_pct"`
	FinalLCR        float64                   `json:"final_lcr" yaml:"final_lcr"`
	FinalCET1       float64                   `json:"final_cet1" yaml:"final_cet1"`
	Trajectory      Trajectory                `json:"trajectory" yaml:"trajectory"`
}

// Analyzer reads one finished simulation result. It never mutates it.
type Analyzer struct {
	result *engine.Result
}

// New wraps a finished run for analysis.
func New(result *engine.Result) *Analyzer {
	return &Analyzer{result: result}
}

// SurvivalHorizon is the number of periods survived before breach, or the
// full scenario length.
func (a *Analyzer) SurvivalHorizon() int { return a.result.SurvivalHorizon }

// BreachAnalysis explains how and how badly the run ended.
func (a *Analyzer) BreachAnalysis() BreachAnalysis {
	b := a.result.Breach
	if b == nil {
		return BreachAnalysis{
			Breached: false,
			Severity: SeverityNone,
			Message:  "No breach detected - bank survives full scenario",
		}
	}

	analysis := BreachAnalysis{
		Breached:  true,
		Type:      b.Type,
		Period:    b.Period,
		Value:     b.Value,
		Threshold: b.Threshold,
	}

	switch b.Type {
	case engine.BreachLCR:
		analysis.Severity = SeverityCritical
		analysis.Message = fmt.Sprintf(
			"Liquidity Coverage Ratio fell below 100%% at period %d. "+
				"The bank exhausted its high-quality liquid assets and could no longer "+
				"meet stressed 30-day outflows.", b.Period)
	case engine.BreachCET1:
		analysis.Severity = SeverityCritical
		analysis.Message = fmt.Sprintf(
			"CET1 capital ratio fell below 4.5%% at period %d. "+
				"Realized losses from asset liquidations eroded capital below minimum "+
				"regulatory requirements.", b.Period)
	case engine.BreachLiquidity:
		analysis.Severity = SeverityFatal
		analysis.Message = fmt.Sprintf(
			"Complete liquidity depletion at period %d. "+
				"The bank ran out of all liquid assets including cash.", b.Period)
	default:
		analysis.Severity = SeverityHigh
		analysis.Message = fmt.Sprintf("Breach of %s at period %d", b.Type, b.Period)
	}

	return analysis
}

// CriticalPeriods lists periods where a metric came within the watch band
// of its minimum (LCR below 110, CET1 below 5.5), sorted ascending.
func (a *Analyzer) CriticalPeriods() []int {
	var critical []int
	for _, p := range a.result.Periods {
		if p.Metrics.LCR < lcrWatchLevel || p.Metrics.CET1Ratio < cet1WatchLevel {
			critical = append(critical, p.Period)
		}
	}
	sort.Ints(critical)
	return critical
}

// PrimaryDriver names the dominant failure mechanism.
func (a *Analyzer) PrimaryDriver() string {
	b := a.result.Breach
	if b == nil {
		return "No failure - scenario survived"
	}

	var outflows, losses float64
	for _, p := range a.result.Periods {
		if p.Period > b.Period {
			break
		}
		outflows += p.TotalOutflow()
		losses += p.Losses
	}

	switch b.Type {
	case engine.BreachLCR, engine.BreachLiquidity:
		if outflows > losses*outflowDominanceFactor {
			return "Severe deposit withdrawals exceeded liquidity buffers"
		}
		return "Asset fire-sale losses depleted liquidity"
	case engine.BreachCET1:
		return "Realized losses from asset liquidations eroded capital"
	default:
		return fmt.Sprintf("Breach of %s", b.Type)
	}
}

// AssetDepletionAnalysis aggregates liquidations per asset class. The
// average haircut is realized loss over amount sold, which folds in the
// scenario fire-sale discount on top of the base class haircuts.
func (a *Analyzer) AssetDepletionAnalysis() map[string]AssetDepletion {
	sales := make(map[string]AssetDepletion)

	for _, p := range a.result.Periods {
		for _, liq := range p.Liquidations {
			s := sales[liq.AssetType]
			s.TotalSold += liq.AmountLiquidated
			s.TotalLoss += liq.Loss
			s.Count++
			sales[liq.AssetType] = s
		}
	}

	for assetType, s := range sales {
		if s.TotalSold > 0 {
			s.AvgHaircut = s.TotalLoss / s.TotalSold * 100
		}
		sales[assetType] = s
	}
	return sales
}

// MetricsTrajectory extracts the per-period metric series with summary
// statistics over the realized path.
func (a *Analyzer) MetricsTrajectory() Trajectory {
	n := len(a.result.Periods)
	t := Trajectory{
		Periods: make([]int, 0, n),
	}

	lcr := make([]float64, 0, n)
	cet1 := make([]float64, 0, n)
	liquid := make([]float64, 0, n)
	deposits := make([]float64, 0, n)

	for _, p := range a.result.Periods {
		t.Periods = append(t.Periods, p.Period)
		lcr = append(lcr, p.Metrics.LCR)
		cet1 = append(cet1, p.Metrics.CET1Ratio)
		liquid = append(liquid, p.Metrics.LiquidAssets)
		deposits = append(deposits, p.Metrics.TotalDeposits)
	}

	t.LCR = summarize(lcr)
	t.CET1Ratio = summarize(cet1)
	t.LiquidAssets = summarize(liquid)
	t.TotalDeposits = summarize(deposits)
	return t
}

func summarize(values []float64) Series {
	if len(values) == 0 {
		return Series{}
	}
	s := Series{
		Values: values,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// SummaryReport assembles the full report.
func (a *Analyzer) SummaryReport() Report {
	return Report{
		ScenarioName:    a.result.ScenarioName,
		SurvivalHorizon: a.SurvivalHorizon(),
		Breach:          a.BreachAnalysis(),
		PrimaryDriver:   a.PrimaryDriver(),
		CriticalPeriods: a.CriticalPeriods(),
		AssetDepletion:  a.AssetDepletionAnalysis(),
		TotalDepletion:  a.result.AssetDepletion,
		TotalLosses:     a.result.TotalLosses,
		CapitalErosion:  a.result.CapitalErosion,
		FinalLCR:        a.result.FinalLCR,
		FinalCET1:       a.result.FinalCET1,
		Trajectory:      a.MetricsTrajectory(),
	}
}
